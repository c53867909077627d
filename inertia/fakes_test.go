package inertia

import (
	"io"
	"sync"
	"time"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{clock: c, ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	t.armLocked(d)
	return t
}

// Advance moves the clock forward and fires every timer that became due
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	for _, t := range c.timers {
		if t.active && !t.deadline.After(c.now) {
			t.fireLocked()
		}
	}
}

// Armed reports whether some timer is waiting to fire
func (c *fakeClock) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, t := range c.timers {
		if t.active {
			return true
		}
	}
	return false
}

type fakeTimer struct {
	clock    *fakeClock
	ch       chan time.Time
	deadline time.Time
	active   bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Reset(d time.Duration) {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	select {
	case <-t.ch:
	default:
	}
	t.armLocked(d)
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	wasActive := t.active
	t.active = false
	return wasActive
}

func (t *fakeTimer) armLocked(d time.Duration) {
	t.deadline = t.clock.now.Add(d)
	t.active = true
	if d <= 0 {
		t.fireLocked()
	}
}

func (t *fakeTimer) fireLocked() {
	t.active = false
	select {
	case t.ch <- t.clock.now:
	default:
	}
}

type move struct {
	dx, dy int32
}

type recordingSink struct {
	mu    sync.Mutex
	moves []move
}

func (s *recordingSink) Move(dx, dy int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moves = append(s.moves, move{dx, dy})
}

func (s *recordingSink) Moves() []move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]move(nil), s.moves...)
}

func (s *recordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.moves)
}

// scriptedSource replays events, then returns err (io.EOF by default)
type scriptedSource struct {
	events []Event
	err    error
}

func (s *scriptedSource) NextEvent() (Event, error) {
	if len(s.events) == 0 {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// blockingSource never yields
type blockingSource struct {
	release chan struct{}
}

func (s *blockingSource) NextEvent() (Event, error) {
	<-s.release
	return nil, io.EOF
}

// swipe returns a single-finger gesture moving at (vx, vy) units/s,
// sampled every interval, released at the last sample
func swipe(start time.Time, slot int, vx, vy float64, samples int, interval time.Duration) []Event {
	events := []Event{TouchDown{Slot: slot, Time: start}}
	var at time.Time
	for i := 1; i < samples; i++ {
		at = start.Add(time.Duration(i) * interval)
		secs := at.Sub(start).Seconds()
		events = append(events, TouchMove{Slot: slot, X: vx * secs, Y: vy * secs, Time: at})
	}
	return append(events, TouchUp{Slot: slot, Time: at})
}
