package inertia

import (
	"math"
	"sync"
	"time"

	"github.com/inertpad/inertpad/utils"
)

// State is the motion state of the controller
type State int

const (
	// Idle means no contact and no synthetic motion
	Idle State = iota
	// Tracking means at least one finger is down
	Tracking
	// Inertial means synthetic motion is being emitted
	Inertial
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Inertial:
		return "inertial"
	default:
		return "unknown"
	}
}

// Option customizes a Controller
type Option func(*Controller)

// WithClock replaces the system clock driving the decay loop
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// Controller owns the motion state. Event ingestion and the decay loop both
// go through its mutex, and the sink is only called while it is held, so a
// touch-down observed by HandleEvent is never followed by a stale emission.
type Controller struct {
	mu       sync.Mutex
	cfg      Config
	sink     PointerSink
	clock    Clock
	tracker  *Tracker
	cooldown Cooldown
	contacts int
	state    State

	// current inertial episode
	episode uint64
	motion  motion
	stop    chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// NewController validates cfg and returns an idle controller emitting to sink
func NewController(cfg Config, sink PointerSink, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:     cfg,
		sink:    sink,
		clock:   SystemClock{},
		tracker: NewTracker(cfg.SmoothingWindow),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// HandleEvent applies one touch event
func (c *Controller) HandleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	switch e := ev.(type) {
	case TouchDown:
		c.cancelLocked()
		c.tracker.Begin(Sample{Time: e.Time, X: e.X, Y: e.Y, Slot: e.Slot})
		c.state = Tracking
	case TouchMove:
		if c.state != Tracking {
			// a move without a prior down still means a finger is on the pad
			c.cancelLocked()
			c.state = Tracking
		}
		c.tracker.Record(Sample{Time: e.Time, X: e.X, Y: e.Y, Slot: e.Slot})
	case TouchUp:
		c.touchUpLocked(e)
	case MultitouchCount:
		if c.contacts >= 2 && e.N < 2 {
			c.cooldown.Record(e.Time)
			utils.Trace("multitouch released at %s", e.Time.Format(time.StampMicro))
		}
		c.contacts = e.N
		if e.N == 0 && c.state == Tracking && c.tracker.Active() == 0 {
			c.state = Idle
		}
	}
}

func (c *Controller) touchUpLocked(e TouchUp) {
	vx, vy := c.tracker.Velocity(e.Slot, e.Time)
	c.tracker.End(e.Slot)

	if c.tracker.Active() > 0 || c.contacts >= 2 {
		return
	}

	if c.state != Tracking {
		return
	}
	c.state = Idle

	if elapsed := c.cooldown.Elapsed(e.Time); elapsed < c.cfg.MultitouchCooldown {
		utils.Debug("inertia suppressed, %s since multitouch release", elapsed)
		return
	}

	speed := math.Hypot(vx, vy)
	utils.Trace("release velocity = (%.02f, %.02f), speed = %.02f", vx, vy, speed)
	if speed < c.cfg.SpeedThreshold {
		return
	}

	c.armLocked(vx, vy)
}

// armLocked starts a new inertial episode with velocity (vx, vy)
func (c *Controller) armLocked(vx, vy float64) {
	now := c.clock.Now()

	c.episode++
	c.state = Inertial
	c.motion = newMotion(c.cfg, vx, vy, now)
	c.stop = make(chan struct{})

	utils.Debug("start movement, velocity = (%.02f, %.02f)", vx, vy)

	c.wg.Add(1)
	go c.decay(c.episode, c.stop, now, c.cfg.period())
}

// cancelLocked ends the current episode, if any, without emitting
func (c *Controller) cancelLocked() {
	if c.state != Inertial {
		return
	}

	utils.Debug("stop movement")
	c.endEpisodeLocked()
}

// endEpisodeLocked invalidates the running decay loop
func (c *Controller) endEpisodeLocked() {
	c.episode++
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.motion = motion{}
	c.state = Idle
}

// tick advances the episode to now and emits the resulting delta. It
// returns false once the episode is over.
func (c *Controller) tick(episode uint64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.episode != episode || c.state != Inertial {
		return false
	}

	dx, dy, done := c.motion.step(now)
	if dx != 0 || dy != 0 {
		utils.Trace("relative position = (%d, %d)", dx, dy)
		c.sink.Move(dx, dy)
	}

	if done {
		utils.Debug("movement decayed")
		c.endEpisodeLocked()
		return false
	}

	return true
}

// Reconfigure validates and applies cfg. A running episode keeps the tuning
// it was armed with.
func (c *Controller) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cfg = cfg
	c.tracker.SetWindow(cfg.SmoothingWindow)
	return nil
}

// Config returns the active tuning
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// State returns the current motion state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Velocity returns the current synthetic velocity in touchpad units per
// second, zero unless inertial
func (c *Controller) Velocity() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Inertial {
		return 0, 0
	}
	return c.motion.vx, c.motion.vy
}

// Close stops any running decay loop and waits for it to exit. Events
// handled after Close are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelLocked()
	c.mu.Unlock()

	c.wg.Wait()
}
