package inertia

import (
	"math"
	"time"
)

// Sample is one observed position of a contact
type Sample struct {
	Time time.Time
	X, Y float64
	Slot int
}

// Tracker keeps a sliding window of samples per active gesture and
// estimates release velocity from it. It is not safe for concurrent use;
// the controller serializes access.
type Tracker struct {
	window   time.Duration
	gestures map[int][]Sample
}

// NewTracker creates a tracker retaining samples younger than window
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{
		window:   window,
		gestures: make(map[int][]Sample),
	}
}

// SetWindow changes the smoothing window for subsequent evictions
func (t *Tracker) SetWindow(window time.Duration) {
	t.window = window
}

// Begin starts a new gesture for the sample's slot
func (t *Tracker) Begin(s Sample) {
	t.gestures[s.Slot] = append(t.gestures[s.Slot][:0], s)
}

// Record appends a sample to its slot's gesture
func (t *Tracker) Record(s Sample) {
	samples, ok := t.gestures[s.Slot]
	if !ok {
		t.Begin(s)
		return
	}

	if n := len(samples); n > 0 && s.Time.Before(samples[n-1].Time) {
		return
	}

	t.gestures[s.Slot] = evict(append(samples, s), s.Time, t.window)
}

// End discards the gesture of a slot
func (t *Tracker) End(slot int) {
	delete(t.gestures, slot)
}

// Reset discards all gestures
func (t *Tracker) Reset() {
	clear(t.gestures)
}

// Active returns the number of live gestures
func (t *Tracker) Active() int {
	return len(t.gestures)
}

// Samples returns the retained samples of a slot
func (t *Tracker) Samples(slot int) []Sample {
	return append([]Sample(nil), t.gestures[slot]...)
}

// Velocity estimates the velocity of a slot's gesture at now, in touchpad
// units per second. Samples older than the window relative to now are
// dropped first, so a contact that rested before lifting reports zero.
func (t *Tracker) Velocity(slot int, now time.Time) (float64, float64) {
	samples, ok := t.gestures[slot]
	if !ok {
		return 0, 0
	}

	samples = evict(samples, now, t.window)
	t.gestures[slot] = samples
	return estimate(samples)
}

// estimate computes recency-weighted finite differences. Each consecutive
// pair contributes its displacement rate weighted by its interval and rank,
// so irregular sampling does not over-weight short intervals.
func estimate(samples []Sample) (float64, float64) {
	if len(samples) < 2 {
		return 0, 0
	}

	var vx, vy, total float64
	rank := 0.0
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Time.Sub(samples[i-1].Time).Seconds()
		if dt <= 0 {
			continue
		}
		rank++
		w := dt * rank
		vx += w * (samples[i].X - samples[i-1].X) / dt
		vy += w * (samples[i].Y - samples[i-1].Y) / dt
		total += w
	}

	if total == 0 {
		return 0, 0
	}

	vx, vy = vx/total, vy/total
	if !isFinite(vx) || !isFinite(vy) {
		return 0, 0
	}
	return vx, vy
}

// evict drops samples older than window relative to now, keeping order
func evict(samples []Sample, now time.Time, window time.Duration) []Sample {
	cutoff := now.Add(-window)
	i := 0
	for i < len(samples) && samples[i].Time.Before(cutoff) {
		i++
	}
	if i == len(samples) {
		return nil
	}
	if i == 0 {
		return samples
	}
	return append(samples[:0], samples[i:]...)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
