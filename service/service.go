package service

import (
	"context"
	"fmt"

	"github.com/inertpad/inertpad/config"
	"github.com/inertpad/inertpad/devices"
	"github.com/inertpad/inertpad/inertia"
	"github.com/inertpad/inertpad/types"
	"github.com/inertpad/inertpad/utils"
)

// Source is an opened touchpad
type Source interface {
	inertia.EventSource
	Close() error
}

// Sink is an opened virtual pointer
type Sink interface {
	inertia.PointerSink
	Close() error
}

// Option customizes a Service
type Option func(*Service)

// WithOverrides reapplies command-line settings on top of every reloaded
// config file, so flags keep precedence over the file after a change
func WithOverrides(overrides func(*config.Settings)) Option {
	return func(s *Service) {
		s.overrides = overrides
	}
}

// Service runs the inertia engine between a touchpad and a virtual mouse
type Service struct {
	settings  config.Settings
	watch     bool
	overrides func(*config.Settings)

	openSource func(path string) (Source, error)
	openSink   func(name string) (Sink, error)
	hooks      *ShutdownHook
}

// New returns a service for settings. With watch set, changes to the config
// file are applied to later flicks without a restart.
func New(settings config.Settings, watch bool, opts ...Option) *Service {
	s := &Service{
		settings: settings,
		watch:    watch,
		openSource: func(path string) (Source, error) {
			return devices.OpenTouchpad(path)
		},
		openSink: func(name string) (Sink, error) {
			return devices.NewVirtualMouse(name)
		},
		hooks: NewShutdownHook(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled or the touchpad goes away. Every
// resource opened along the way is released before it returns.
func (s *Service) Run(ctx context.Context) error {
	if err := s.settings.Validate(); err != nil {
		return err
	}

	defer func() {
		if shutdownErr := s.hooks.Shutdown(); shutdownErr != nil {
			utils.Warn("shutdown: %v", shutdownErr)
		}
	}()

	src, err := s.openSource(s.settings.Device)
	if err != nil {
		return fmt.Errorf("failed to open touchpad: %w", err)
	}
	s.hooks.Register("touchpad", src.Close)

	if info, ok := src.(interface{ Info() types.TouchpadInfo }); ok {
		tp := info.Info()
		utils.Info("Using touchpad %q at %s (multitouch: %t)", tp.Name, tp.Path, tp.Multitouch)
	}

	sink, err := s.openSink(s.settings.VirtualName)
	if err != nil {
		return err
	}
	s.hooks.Register("virtual mouse", sink.Close)

	if info, ok := sink.(interface{ Info() types.VirtualDeviceInfo }); ok {
		vm := info.Info()
		utils.Verbose("Virtual mouse %q (%04x:%04x)", vm.Name, vm.Vendor, vm.Product)
	}

	ctrl, err := inertia.NewController(s.settings.Config, sink)
	if err != nil {
		return err
	}
	s.hooks.Register("controller", func() error {
		ctrl.Close()
		return nil
	})

	if s.watch && s.settings.Path != "" {
		if err := config.Watch(ctx, s.settings.Path, s.reconfigure(ctrl)); err != nil {
			utils.Warn("config changes will not be picked up: %v", err)
		} else {
			utils.Info("Watching %s for changes", s.settings.Path)
		}
	}

	utils.Verbose("drag=%g speed_factor=%g speed_threshold=%g refresh_rate=%g",
		s.settings.Drag, s.settings.SpeedFactor, s.settings.SpeedThreshold, s.settings.RefreshRate)

	return inertia.Run(ctx, src, ctrl)
}

func (s *Service) reconfigure(ctrl *inertia.Controller) func(config.Settings) {
	return func(next config.Settings) {
		if s.overrides != nil {
			s.overrides(&next)
		}
		if err := ctrl.Reconfigure(next.Config); err != nil {
			utils.Warn("ignoring config change: %v", err)
			return
		}
		if next.Device != s.settings.Device || next.VirtualName != s.settings.VirtualName {
			utils.Warn("device settings changed, restart to apply them")
		}
	}
}
