package inertia

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	pollDt  = time.Millisecond
)

func TestMotion_NominalTick(t *testing.T) {
	cfg := scenarioConfig()
	m := newMotion(cfg, 2000, 0, t0)

	dx, dy, done := m.step(t0.Add(cfg.period()))
	assert.Equal(t, int32(15), dx)
	assert.Equal(t, int32(0), dy)
	assert.False(t, done)
	assert.InDelta(t, 1700, m.vx, 1e-9)
}

func TestMotion_CarriesRemainder(t *testing.T) {
	cfg := scenarioConfig()
	m := newMotion(cfg, -2000, 0, t0)
	p := cfg.period()

	var got []int32
	for i := 1; i <= 3; i++ {
		dx, _, _ := m.step(t0.Add(time.Duration(i) * p))
		got = append(got, dx)
	}

	// -15, -12.75, -10.8375 with the fraction carried
	assert.Equal(t, []int32{-15, -12, -11}, got)
	assert.InDelta(t, -0.5875, m.remX, 1e-9)
}

func TestMotion_DecayIndependentOfTickLength(t *testing.T) {
	cfg := scenarioConfig()
	p := cfg.period()

	short := newMotion(cfg, 3000, -1000, t0)
	short.step(t0.Add(p))
	short.step(t0.Add(2 * p))

	long := newMotion(cfg, 3000, -1000, t0)
	long.step(t0.Add(2 * p))

	assert.InDelta(t, short.vx, long.vx, 1e-9)
	assert.InDelta(t, short.vy, long.vy, 1e-9)
}

func TestMotion_NonPositiveDt(t *testing.T) {
	cfg := scenarioConfig()
	m := newMotion(cfg, 2000, 0, t0)

	for _, now := range []time.Time{t0, t0.Add(-time.Second)} {
		dx, dy, done := m.step(now)
		assert.Zero(t, dx)
		assert.Zero(t, dy)
		assert.False(t, done)
		assert.Equal(t, 2000.0, m.vx)
		assert.Equal(t, t0, m.last)
	}
}

func TestMotion_ClampsLongGaps(t *testing.T) {
	cfg := scenarioConfig()
	m := newMotion(cfg, 2000, 0, t0)

	dx, _, _ := m.step(t0.Add(time.Hour))
	assert.Equal(t, int32(60), dx)
}

func TestMotion_NonFiniteVelocity(t *testing.T) {
	cfg := scenarioConfig()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		m := newMotion(cfg, v, 100, t0)
		dx, dy, done := m.step(t0.Add(cfg.period()))
		assert.Zero(t, dx)
		assert.Zero(t, dy)
		assert.True(t, done)
	}
}

func TestMotion_HugeVelocityClamps(t *testing.T) {
	cfg := scenarioConfig()
	m := newMotion(cfg, 1e300, -1e300, t0)

	dx, dy, _ := m.step(t0.Add(cfg.period()))
	assert.Equal(t, int32(math.MaxInt32), dx)
	assert.Equal(t, int32(math.MinInt32), dy)
}

func TestMotion_BoundedTickCount(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.period()

	for _, drag := range []float64{0.01, 0.15, 0.5, 0.99} {
		cfg.Drag = drag
		m := newMotion(cfg, 1e6, 1e6, t0)

		// ln(stop/speed) / ln(1-drag) decays, plus the final one
		speed := math.Hypot(1e6, 1e6)
		bound := int(math.Ceil(math.Log(cfg.stopSpeed()/speed)/math.Log(1-drag))) + 1

		ticks := 0
		prev := speed
		for done := false; !done; {
			ticks++
			_, _, done = m.step(t0.Add(time.Duration(ticks) * p))
			require.Less(t, m.speed(), prev)
			prev = m.speed()
			require.LessOrEqual(t, ticks, bound, "drag %v", drag)
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   float64
		whole int32
		rem  float64
	}{
		{0, 0, 0},
		{12.75, 12, 0.75},
		{-12.75, -12, -0.75},
		{14.999999999999998, 15, 0},
		{0.5, 0, 0.5},
		{math.NaN(), 0, 0},
		{math.Inf(1), 0, 0},
		{1e12, math.MaxInt32, 0},
		{-1e12, math.MinInt32, 0},
	}

	for _, tt := range tests {
		whole, rem := split(tt.in)
		assert.Equal(t, tt.whole, whole, "split(%v)", tt.in)
		assert.InDelta(t, tt.rem, rem, 1e-6, "split(%v)", tt.in)
	}
}

func TestDecayLoop_EmitsOnTicks(t *testing.T) {
	c, sink, clock := newTestController(t, scenarioConfig())
	feed(c, swipe(t0, 0, 2000, 0, 5, ms(10)))
	require.Equal(t, Inertial, c.State())

	period := c.Config().period()
	for i := 1; i <= 3; i++ {
		require.Eventually(t, clock.Armed, waitFor, pollDt)
		clock.Advance(period)
		n := i
		require.Eventually(t, func() bool { return sink.Len() == n }, waitFor, pollDt)
	}

	assert.Equal(t, []move{{15, 0}, {12, 0}, {11, 0}}, sink.Moves())
}

func TestDecayLoop_RunsToIdle(t *testing.T) {
	c, sink, clock := newTestController(t, scenarioConfig())
	feed(c, swipe(t0, 0, 2000, 0, 5, ms(10)))
	require.Equal(t, Inertial, c.State())

	period := c.Config().period()
	for i := 0; c.State() == Inertial; i++ {
		require.Less(t, i, 100)
		require.Eventually(t, func() bool {
			return clock.Armed() || c.State() != Inertial
		}, waitFor, pollDt)
		clock.Advance(period)
		require.Eventually(t, func() bool {
			return clock.Armed() || c.State() != Inertial
		}, waitFor, pollDt)
	}

	assert.Equal(t, Idle, c.State())
	assert.Len(t, sink.Moves(), 17)
	assert.Eventually(t, func() bool { return !clock.Armed() }, waitFor, pollDt)
}

func TestDecayLoop_TouchDownHaltsEmission(t *testing.T) {
	c, sink, clock := newTestController(t, scenarioConfig())
	feed(c, swipe(t0, 0, 2000, 0, 5, ms(10)))

	period := c.Config().period()
	require.Eventually(t, clock.Armed, waitFor, pollDt)
	clock.Advance(period)
	require.Eventually(t, func() bool { return sink.Len() == 1 }, waitFor, pollDt)

	c.HandleEvent(TouchDown{Slot: 0, X: 5, Y: 5, Time: t0.Add(time.Second)})
	require.Equal(t, Tracking, c.State())

	for i := 0; i < 5; i++ {
		clock.Advance(period)
	}
	assert.Never(t, func() bool { return sink.Len() > 1 }, 50*time.Millisecond, pollDt)
	assert.Eventually(t, func() bool { return !clock.Armed() }, waitFor, pollDt)
}

func TestDecayLoop_ResyncsAfterStall(t *testing.T) {
	c, sink, clock := newTestController(t, scenarioConfig())
	feed(c, swipe(t0, 0, 2000, 0, 5, ms(10)))

	period := c.Config().period()
	require.Eventually(t, clock.Armed, waitFor, pollDt)

	// the loop was starved for ten periods; one catch-up tick, no burst
	clock.Advance(10 * period)
	require.Eventually(t, func() bool { return sink.Len() == 1 && clock.Armed() }, waitFor, pollDt)

	clock.Advance(period)
	require.Eventually(t, func() bool { return sink.Len() == 2 }, waitFor, pollDt)

	// 4 periods clamped: 60 emitted, then 2000*0.85^4*0.0075
	assert.Equal(t, []move{{60, 0}, {7, 0}}, sink.Moves())
}

func TestDecayLoop_CloseStopsLoop(t *testing.T) {
	c, sink, clock := newTestController(t, scenarioConfig())
	feed(c, swipe(t0, 0, 2000, 0, 5, ms(10)))
	require.Eventually(t, clock.Armed, waitFor, pollDt)

	c.Close()
	assert.Equal(t, Idle, c.State())
	assert.False(t, clock.Armed())

	clock.Advance(time.Second)
	assert.Zero(t, sink.Len())
}
