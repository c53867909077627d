package devices

import (
	"fmt"
	"sync"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/inertpad/inertpad/types"
	"github.com/inertpad/inertpad/utils"
	"golang.org/x/time/rate"
)

const (
	busUSB         = 0x03
	virtualVendor  = 0x1234
	virtualProduct = 0x5678

	// writeWarnInterval limits how often failed writes are logged
	writeWarnInterval = 5 * time.Second
)

// eventWriter is the part of *evdev.InputDevice used to inject events
type eventWriter interface {
	WriteOne(event *evdev.InputEvent) error
	Close() error
}

// VirtualMouse is a uinput relative pointer. It implements inertia.PointerSink.
type VirtualMouse struct {
	mu     sync.Mutex
	w      eventWriter
	info   types.VirtualDeviceInfo
	closed bool

	warnings *rate.Sometimes
	warnf    func(format string, args ...interface{})
}

// NewVirtualMouse creates a virtual pointer named name through /dev/uinput
func NewVirtualMouse(name string) (*VirtualMouse, error) {
	dev, err := evdev.CreateDevice(
		name,
		evdev.InputID{
			BusType: busUSB,
			Vendor:  virtualVendor,
			Product: virtualProduct,
			Version: 1,
		},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: {evdev.BTN_LEFT},
			evdev.EV_REL: {evdev.REL_X, evdev.REL_Y},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual mouse: %w", err)
	}

	utils.Verbose("Created virtual mouse %q", name)
	return newVirtualMouse(dev, name), nil
}

func newVirtualMouse(w eventWriter, name string) *VirtualMouse {
	return &VirtualMouse{
		w: w,
		info: types.VirtualDeviceInfo{
			Name:    name,
			Vendor:  virtualVendor,
			Product: virtualProduct,
		},
		warnings: &rate.Sometimes{Interval: writeWarnInterval},
		warnf:    utils.Warn,
	}
}

// Info describes the virtual device
func (m *VirtualMouse) Info() types.VirtualDeviceInfo {
	return m.info
}

// Move emits one relative motion report. Zero axes are left out; a report
// with no motion is not written at all.
func (m *VirtualMouse) Move(dx, dy int32) {
	if dx == 0 && dy == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	events := make([]*evdev.InputEvent, 0, 3)
	if dx != 0 {
		events = append(events, &evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_X, Value: dx})
	}
	if dy != 0 {
		events = append(events, &evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: dy})
	}
	events = append(events, &evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT})

	for _, ev := range events {
		if err := m.w.WriteOne(ev); err != nil {
			m.warn(err)
			return
		}
	}
}

func (m *VirtualMouse) warn(err error) {
	m.warnings.Do(func() {
		m.warnf("failed to write virtual mouse event: %v", err)
	})
}

// Close destroys the virtual device. Later moves are dropped.
func (m *VirtualMouse) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.w.Close()
}
