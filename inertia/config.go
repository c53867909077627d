package inertia

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid inertia config")

const (
	DefaultDrag               = 0.15
	DefaultSpeedFactor        = 0.0075
	DefaultSpeedThreshold     = 2000.0
	DefaultRefreshRate        = 60.0
	DefaultMultitouchCooldown = 500 * time.Millisecond
	DefaultSmoothingWindow    = 50 * time.Millisecond

	// StopEpsilon is the per-tick emitted distance, in pointer units, below
	// which inertial motion ends.
	StopEpsilon = 1.0

	// maxTickLag bounds the dt integrated in one tick, in periods.
	maxTickLag = 4.0
)

// Config holds the tuning of the inertial-motion engine
type Config struct {
	// Drag is the fraction of velocity lost per nominal tick, in (0,1)
	Drag float64 `json:"drag"`
	// SpeedFactor converts raw touchpad velocity into pointer units per tick
	SpeedFactor float64 `json:"speed_factor"`
	// SpeedThreshold is the minimum raw release speed, in touchpad units/s
	SpeedThreshold float64 `json:"speed_threshold"`
	// RefreshRate is the decay loop frequency in Hz
	RefreshRate float64 `json:"refresh_rate"`
	// MultitouchCooldown suppresses arming after a multitouch release
	MultitouchCooldown time.Duration `json:"multitouch_cooldown"`
	// SmoothingWindow is the age limit of samples used for velocity
	SmoothingWindow time.Duration `json:"smoothing_window"`
}

// DefaultConfig returns the stock tuning
func DefaultConfig() Config {
	return Config{
		Drag:               DefaultDrag,
		SpeedFactor:        DefaultSpeedFactor,
		SpeedThreshold:     DefaultSpeedThreshold,
		RefreshRate:        DefaultRefreshRate,
		MultitouchCooldown: DefaultMultitouchCooldown,
		SmoothingWindow:    DefaultSmoothingWindow,
	}
}

// Validate reports the first out-of-range value
func (c Config) Validate() error {
	finite := func(v float64) bool {
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	}

	switch {
	case !finite(c.Drag) || c.Drag <= 0 || c.Drag >= 1:
		return fmt.Errorf("%w: drag must be in (0,1), got %v", ErrInvalidConfig, c.Drag)
	case !finite(c.SpeedFactor) || c.SpeedFactor <= 0:
		return fmt.Errorf("%w: speed factor must be positive, got %v", ErrInvalidConfig, c.SpeedFactor)
	case !finite(c.SpeedThreshold) || c.SpeedThreshold < 0:
		return fmt.Errorf("%w: speed threshold must be non-negative, got %v", ErrInvalidConfig, c.SpeedThreshold)
	case !finite(c.RefreshRate) || c.RefreshRate <= 0:
		return fmt.Errorf("%w: refresh rate must be positive, got %v", ErrInvalidConfig, c.RefreshRate)
	case c.MultitouchCooldown < 0:
		return fmt.Errorf("%w: multitouch cooldown must be non-negative, got %v", ErrInvalidConfig, c.MultitouchCooldown)
	case c.SmoothingWindow <= 0:
		return fmt.Errorf("%w: smoothing window must be positive, got %v", ErrInvalidConfig, c.SmoothingWindow)
	}

	// sub-nanosecond periods cannot be scheduled
	if c.period() <= 0 {
		return fmt.Errorf("%w: refresh rate too high, got %v", ErrInvalidConfig, c.RefreshRate)
	}

	return nil
}

// period is the nominal tick interval
func (c Config) period() time.Duration {
	return time.Duration(float64(time.Second) / c.RefreshRate)
}

// retention is the fraction of velocity kept per nominal tick
func (c Config) retention() float64 {
	return 1 - c.Drag
}

// stopSpeed is the raw speed whose emitted per-tick distance equals StopEpsilon
func (c Config) stopSpeed() float64 {
	return StopEpsilon / c.SpeedFactor
}
