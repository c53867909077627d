package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/inertpad/inertpad/inertia"
	"gopkg.in/ini.v1"
)

const (
	// DefaultVirtualName is the name of the virtual pointer device
	DefaultVirtualName = "InertPad Virtual Mouse"

	sectionInertia = "inertia"
	sectionDevice  = "device"
)

// Settings is the effective configuration of a run
type Settings struct {
	inertia.Config

	// Device is an explicit /dev/input/eventN path, empty to auto-detect
	Device      string `json:"device,omitempty"`
	VirtualName string `json:"virtual_name"`

	Path string `json:"config_path,omitempty"`
}

// Default returns the built-in settings
func Default() Settings {
	return Settings{
		Config:      inertia.DefaultConfig(),
		VirtualName: DefaultVirtualName,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/inertpad/inertpad.conf, falling back
// to ~/.config when XDG_CONFIG_HOME is unset
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "inertpad", "inertpad.conf")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Default()
	s.Path = path
	if path == "" {
		return s, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return s, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return s, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := s.apply(file); err != nil {
		return s, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return s, nil
}

// apply overlays the keys present in file
func (s *Settings) apply(file *ini.File) error {
	tuning := file.Section(sectionInertia)

	floats := []struct {
		key string
		dst *float64
	}{
		{"drag", &s.Drag},
		{"speed_factor", &s.SpeedFactor},
		{"speed_threshold", &s.SpeedThreshold},
		{"refresh_rate", &s.RefreshRate},
	}
	for _, f := range floats {
		if !tuning.HasKey(f.key) {
			continue
		}
		v, err := tuning.Key(f.key).Float64()
		if err != nil {
			return fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = v
	}

	millis := []struct {
		key string
		dst *time.Duration
	}{
		{"multitouch_cooldown", &s.MultitouchCooldown},
		{"smoothing_window", &s.SmoothingWindow},
	}
	for _, m := range millis {
		if !tuning.HasKey(m.key) {
			continue
		}
		v, err := tuning.Key(m.key).Uint64()
		if err != nil {
			return fmt.Errorf("%s: %w", m.key, err)
		}
		*m.dst = time.Duration(v) * time.Millisecond
	}

	device := file.Section(sectionDevice)
	if device.HasKey("path") {
		s.Device = device.Key("path").String()
	}
	if device.HasKey("virtual_name") {
		s.VirtualName = device.Key("virtual_name").String()
	}

	return nil
}

// Validate checks the tuning and device settings
func (s Settings) Validate() error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	if s.VirtualName == "" {
		return fmt.Errorf("virtual device name is required")
	}
	return nil
}

// Save writes the tuning and device keys of s to path
func Save(path string, s Settings) error {
	file := ini.Empty()

	tuning := file.Section(sectionInertia)
	tuning.Key("drag").SetValue(formatFloat(s.Drag))
	tuning.Key("speed_factor").SetValue(formatFloat(s.SpeedFactor))
	tuning.Key("speed_threshold").SetValue(formatFloat(s.SpeedThreshold))
	tuning.Key("refresh_rate").SetValue(formatFloat(s.RefreshRate))
	tuning.Key("multitouch_cooldown").SetValue(fmt.Sprint(s.MultitouchCooldown.Milliseconds()))
	tuning.Key("smoothing_window").SetValue(fmt.Sprint(s.SmoothingWindow.Milliseconds()))

	device := file.Section(sectionDevice)
	if s.Device != "" {
		device.Key("path").SetValue(s.Device)
	}
	device.Key("virtual_name").SetValue(s.VirtualName)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
