package devices

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/holoplot/go-evdev"
	"github.com/inertpad/inertpad/inertia"
	"github.com/inertpad/inertpad/types"
	"github.com/inertpad/inertpad/utils"
)

// ErrTouchpadNotFound is returned when no input device looks like a touchpad
var ErrTouchpadNotFound = errors.New("touchpad not found")

// capabilities is the part of *evdev.InputDevice used to classify devices
type capabilities interface {
	CapableEvents(t evdev.EvType) []evdev.EvCode
}

// isTouchpad reports whether a device advertises finger tracking
func isTouchpad(dev capabilities) bool {
	keys := dev.CapableEvents(evdev.EV_KEY)
	return slices.Contains(keys, evdev.BTN_TOOL_FINGER) && slices.Contains(keys, evdev.BTN_TOUCH)
}

// hasSlots reports whether a device speaks multitouch protocol B
func hasSlots(dev capabilities) bool {
	axes := dev.CapableEvents(evdev.EV_ABS)
	return slices.Contains(axes, evdev.ABS_MT_SLOT) && slices.Contains(axes, evdev.ABS_MT_TRACKING_ID)
}

// maxContacts returns the largest finger count among the BTN_TOOL_* keys
func maxContacts(dev capabilities) int {
	n := 0
	for _, code := range dev.CapableEvents(evdev.EV_KEY) {
		if fingers, ok := toolFingers[code]; ok && fingers > n {
			n = fingers
		}
	}
	return n
}

func describe(path, name string, dev capabilities) types.TouchpadInfo {
	return types.TouchpadInfo{
		Name:        name,
		Path:        path,
		Multitouch:  hasSlots(dev),
		MaxContacts: maxContacts(dev),
	}
}

// ListTouchpads enumerates /dev/input and returns every touchpad found.
// Devices that cannot be opened are skipped.
func ListTouchpads() ([]types.TouchpadInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to list input devices: %w", err)
	}

	var touchpads []types.TouchpadInfo
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			utils.Verbose("Skipping %s: %v", p.Path, err)
			continue
		}

		if isTouchpad(dev) {
			touchpads = append(touchpads, describe(p.Path, p.Name, dev))
		}
		_ = dev.Close()
	}

	return touchpads, nil
}

// Touchpad is an opened touchpad producing typed touch events. It only reads
// the device and never grabs it, so the desktop keeps receiving the
// original events.
type Touchpad struct {
	*Decoder

	dev  *evdev.InputDevice
	info types.TouchpadInfo
}

// OpenTouchpad opens the touchpad at path, or the first touchpad found when
// path is empty
func OpenTouchpad(path string) (*Touchpad, error) {
	if path == "" {
		touchpads, err := ListTouchpads()
		if err != nil {
			return nil, err
		}
		if len(touchpads) == 0 {
			return nil, ErrTouchpadNotFound
		}
		path = touchpads[0].Path
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if !isTouchpad(dev) {
		_ = dev.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrTouchpadNotFound)
	}

	name, err := dev.Name()
	if err != nil {
		name = path
	}

	info := describe(path, name, dev)
	return &Touchpad{
		Decoder: NewDecoder(dev, info.Multitouch),
		dev:     dev,
		info:    info,
	}, nil
}

// Info describes the opened device
func (t *Touchpad) Info() types.TouchpadInfo {
	return t.info
}

// NextEvent returns the next touch event. A closed device reads as io.EOF.
func (t *Touchpad) NextEvent() (inertia.Event, error) {
	ev, err := t.Decoder.NextEvent()
	if errors.Is(err, os.ErrClosed) {
		return nil, io.EOF
	}
	return ev, err
}

// Close releases the device and unblocks a pending NextEvent
func (t *Touchpad) Close() error {
	return t.dev.Close()
}
