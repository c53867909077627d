package inertia

import (
	"math"
	"time"
)

// motion is the decaying velocity of one inertial episode together with the
// tuning it was armed with
type motion struct {
	vx, vy     float64
	remX, remY float64
	last       time.Time

	period      time.Duration
	retention   float64
	speedFactor float64
	stopSpeed   float64
}

func newMotion(cfg Config, vx, vy float64, now time.Time) motion {
	return motion{
		vx:          vx,
		vy:          vy,
		last:        now,
		period:      cfg.period(),
		retention:   cfg.retention(),
		speedFactor: cfg.SpeedFactor,
		stopSpeed:   cfg.stopSpeed(),
	}
}

// step advances the motion to now. The emitted delta is the distance
// travelled at the pre-decay velocity over dt, in pointer units, with the
// fractional part carried to the next step. Velocity then decays by
// retention^(dt/period), so late or early ticks integrate the same curve.
func (m *motion) step(now time.Time) (dx, dy int32, done bool) {
	if !isFinite(m.vx) || !isFinite(m.vy) {
		m.vx, m.vy = 0, 0
	}
	if m.speed() < m.stopSpeed {
		return 0, 0, true
	}

	n := 0.0
	if now.After(m.last) {
		n = float64(now.Sub(m.last)) / float64(m.period)
		m.last = now
	}
	if !(n > 0) || !isFinite(n) {
		return 0, 0, false
	}
	n = math.Min(n, maxTickLag)

	ex := m.vx*m.speedFactor*n + m.remX
	ey := m.vy*m.speedFactor*n + m.remY
	dx, m.remX = split(ex)
	dy, m.remY = split(ey)

	decay := math.Pow(m.retention, n)
	m.vx *= decay
	m.vy *= decay

	return dx, dy, m.speed() < m.stopSpeed
}

func (m *motion) speed() float64 {
	return math.Hypot(m.vx, m.vy)
}

// splitEpsilon absorbs representation error so that 14.999999999999998
// still emits 15
const splitEpsilon = 1e-9

// split truncates v toward zero into an int32 and returns the remainder.
// Non-finite or out-of-range values clamp.
func split(v float64) (int32, float64) {
	if !isFinite(v) {
		return 0, 0
	}
	t := math.Trunc(v + math.Copysign(splitEpsilon, v))
	switch {
	case t > math.MaxInt32:
		return math.MaxInt32, 0
	case t < math.MinInt32:
		return math.MinInt32, 0
	}
	return int32(t), v - t
}

// decay runs the tick loop of one episode. Ticks are scheduled against
// deadlines advanced by one period each, and the loop resynchronizes when it
// falls more than two periods behind instead of bursting.
func (c *Controller) decay(episode uint64, stop <-chan struct{}, start time.Time, period time.Duration) {
	defer c.wg.Done()

	deadline := start.Add(period)
	timer := c.clock.NewTimer(period)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C():
		}

		now := c.clock.Now()
		if !c.tick(episode, now) {
			return
		}

		deadline = deadline.Add(period)
		if now.Sub(deadline) > 2*period {
			deadline = now.Add(period)
		}

		wait := deadline.Sub(c.clock.Now())
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)
	}
}
