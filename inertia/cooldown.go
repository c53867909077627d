package inertia

import (
	"math"
	"time"
)

// Cooldown records when multitouch contact was last released. It only gates
// arming and is never a state of its own.
type Cooldown struct {
	last     time.Time
	recorded bool
}

// Record marks a multitouch release at t
func (c *Cooldown) Record(t time.Time) {
	c.last = t
	c.recorded = true
}

// Elapsed returns the time since the last multitouch release, or the
// maximum duration if none was recorded
func (c *Cooldown) Elapsed(now time.Time) time.Duration {
	if !c.recorded {
		return time.Duration(math.MaxInt64)
	}
	if d := now.Sub(c.last); d > 0 {
		return d
	}
	return 0
}
