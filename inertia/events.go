package inertia

import "time"

// Event is a typed touch event decoded from the touchpad
type Event interface {
	EventTime() time.Time
}

// TouchDown marks a contact landing in the given slot
type TouchDown struct {
	Slot int
	X, Y float64
	Time time.Time
}

// TouchMove reports a new position for an active contact
type TouchMove struct {
	Slot int
	X, Y float64
	Time time.Time
}

// TouchUp marks a contact leaving the touchpad
type TouchUp struct {
	Slot int
	Time time.Time
}

// MultitouchCount reports the number of simultaneous contacts whenever it changes
type MultitouchCount struct {
	N    int
	Time time.Time
}

func (e TouchDown) EventTime() time.Time       { return e.Time }
func (e TouchMove) EventTime() time.Time       { return e.Time }
func (e TouchUp) EventTime() time.Time         { return e.Time }
func (e MultitouchCount) EventTime() time.Time { return e.Time }

// EventSource yields touch events in order. Events for a single slot are
// monotonic in time. NextEvent returns io.EOF once the source is closed.
type EventSource interface {
	NextEvent() (Event, error)
}

// PointerSink accepts relative pointer motion. Implementations must not block.
type PointerSink interface {
	Move(dx, dy int32)
}
