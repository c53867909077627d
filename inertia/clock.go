package inertia

import "time"

// Clock supplies time to the decay loop
type Clock interface {
	Now() time.Time
	NewTimer(d time.Duration) Timer
}

// Timer is the subset of *time.Timer the decay loop uses
type Timer interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop() bool
}

// SystemClock is the wall clock with monotonic readings
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (s *systemTimer) C() <-chan time.Time { return s.t.C }

// Reset drains a fired timer before rearming it
func (s *systemTimer) Reset(d time.Duration) {
	if !s.t.Stop() {
		select {
		case <-s.t.C:
		default:
		}
	}
	s.t.Reset(d)
}

func (s *systemTimer) Stop() bool { return s.t.Stop() }
