package devices

import (
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/inertpad/inertpad/inertia"
	"github.com/inertpad/inertpad/utils"
)

// maxSlots bounds the slot numbers accepted from a device
const maxSlots = 32

// toolFingers maps the BTN_TOOL_* keys to the number of contacts they report
var toolFingers = map[evdev.EvCode]int{
	evdev.BTN_TOOL_FINGER:    1,
	evdev.BTN_TOOL_DOUBLETAP: 2,
	evdev.BTN_TOOL_TRIPLETAP: 3,
	evdev.BTN_TOOL_QUADTAP:   4,
	evdev.BTN_TOOL_QUINTTAP:  5,
}

// rawReader is the part of *evdev.InputDevice the decoder reads from
type rawReader interface {
	ReadOne() (*evdev.InputEvent, error)
}

// stateReader is implemented by readers that can report current key state
type stateReader interface {
	State(t evdev.EvType) (evdev.StateMap, error)
}

// contact is the decoder's view of one slot. id is -1 while the slot is
// empty; reported is the id as of the last emitted frame.
type contact struct {
	id       int32
	reported int32
	x, y     float64
	moved    bool
}

// Decoder turns evdev frames into typed touch events. It understands
// multitouch protocol B (ABS_MT_SLOT / ABS_MT_TRACKING_ID) and falls back to
// single-touch BTN_TOUCH + ABS_X/ABS_Y for devices without slots. Changes
// are applied at SYN_REPORT so a frame is seen atomically.
type Decoder struct {
	r          rawReader
	multitouch bool

	slot     int
	slots    []contact
	tools    int
	contacts int
	nextID   int32
	dropped  bool

	pending []inertia.Event
}

// NewDecoder decodes events read from r
func NewDecoder(r rawReader, multitouch bool) *Decoder {
	return &Decoder{
		r:          r,
		multitouch: multitouch,
	}
}

// NextEvent returns the next decoded touch event
func (d *Decoder) NextEvent() (inertia.Event, error) {
	for len(d.pending) == 0 {
		ev, err := d.r.ReadOne()
		if err != nil {
			return nil, err
		}
		d.handle(ev)
	}

	ev := d.pending[0]
	d.pending = d.pending[1:]
	return ev, nil
}

func (d *Decoder) handle(ev *evdev.InputEvent) {
	if ev.Type == evdev.EV_SYN {
		switch ev.Code {
		case evdev.SYN_REPORT:
			t := time.Unix(0, ev.Time.Nano())
			if d.dropped {
				d.dropped = false
				d.resync(t)
				return
			}
			d.flush(t)
		case evdev.SYN_DROPPED:
			utils.Verbose("touchpad event buffer overrun, dropping frame")
			d.dropped = true
		}
		return
	}

	if d.dropped {
		return
	}

	switch ev.Type {
	case evdev.EV_ABS:
		d.handleAbs(ev.Code, ev.Value)
	case evdev.EV_KEY:
		d.handleKey(ev.Code, ev.Value)
	}
}

func (d *Decoder) handleAbs(code evdev.EvCode, value int32) {
	if d.multitouch {
		switch code {
		case evdev.ABS_MT_SLOT:
			d.slot = int(value)
		case evdev.ABS_MT_TRACKING_ID:
			if c := d.current(); c != nil {
				c.id = value
			}
		case evdev.ABS_MT_POSITION_X:
			if c := d.current(); c != nil {
				c.x, c.moved = float64(value), true
			}
		case evdev.ABS_MT_POSITION_Y:
			if c := d.current(); c != nil {
				c.y, c.moved = float64(value), true
			}
		}
		return
	}

	c := d.slotAt(0)
	switch code {
	case evdev.ABS_X:
		c.x, c.moved = float64(value), true
	case evdev.ABS_Y:
		c.y, c.moved = float64(value), true
	}
}

func (d *Decoder) handleKey(code evdev.EvCode, value int32) {
	if n, ok := toolFingers[code]; ok {
		if value != 0 {
			d.tools = n
		} else if d.tools == n {
			d.tools = 0
		}
		return
	}

	if code == evdev.BTN_TOUCH && !d.multitouch {
		c := d.slotAt(0)
		if value != 0 && c.id < 0 {
			c.id = d.nextID
			d.nextID = (d.nextID + 1) & 0x7fffffff
		} else if value == 0 {
			c.id = -1
		}
	}
}

// current returns the contact of the selected slot, nil when out of range
func (d *Decoder) current() *contact {
	if d.slot < 0 || d.slot >= maxSlots {
		return nil
	}
	return d.slotAt(d.slot)
}

func (d *Decoder) slotAt(slot int) *contact {
	for len(d.slots) <= slot {
		d.slots = append(d.slots, contact{id: -1, reported: -1})
	}
	return &d.slots[slot]
}

// flush emits the changes of the completed frame: lifts, then landings,
// then moves, then the contact count
func (d *Decoder) flush(t time.Time) {
	active := 0
	for i := range d.slots {
		c := &d.slots[i]
		if c.reported >= 0 && c.id != c.reported {
			d.pending = append(d.pending, inertia.TouchUp{Slot: i, Time: t})
		}
		if c.id >= 0 {
			active++
		}
	}

	for i := range d.slots {
		c := &d.slots[i]
		switch {
		case c.id >= 0 && c.id != c.reported:
			d.pending = append(d.pending, inertia.TouchDown{Slot: i, X: c.x, Y: c.y, Time: t})
		case c.id >= 0 && c.moved:
			d.pending = append(d.pending, inertia.TouchMove{Slot: i, X: c.x, Y: c.y, Time: t})
		}
		c.reported = c.id
		c.moved = false
	}

	count := max(active, d.tools)
	if count != d.contacts {
		d.contacts = count
		d.pending = append(d.pending, inertia.MultitouchCount{N: count, Time: t})
	}
}

// resync recovers from a buffer overrun. Lifts may have been lost, so every
// reported contact is released; fingers still down reappear with their next
// tracking id. The tool count is re-read from the device when possible.
func (d *Decoder) resync(t time.Time) {
	for i := range d.slots {
		c := &d.slots[i]
		if c.reported >= 0 {
			d.pending = append(d.pending, inertia.TouchUp{Slot: i, Time: t})
		}
		c.id, c.reported = -1, -1
		c.moved = false
	}

	d.tools = 0
	if sr, ok := d.r.(stateReader); ok {
		if keys, err := sr.State(evdev.EV_KEY); err == nil {
			for code, fingers := range toolFingers {
				if keys[code] && fingers > d.tools {
					d.tools = fingers
				}
			}
		} else {
			utils.Verbose("failed to read touchpad key state: %v", err)
		}
	}

	if d.tools != d.contacts {
		d.contacts = d.tools
		d.pending = append(d.pending, inertia.MultitouchCount{N: d.tools, Time: t})
	}
}
