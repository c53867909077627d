package commands

import (
	"fmt"

	"github.com/inertpad/inertpad/config"
)

// ConfigInfo is the effective configuration as reported by the config command
type ConfigInfo struct {
	Path                 string  `json:"config_path"`
	Exists               bool    `json:"exists"`
	Device               string  `json:"device,omitempty"`
	VirtualName          string  `json:"virtual_name"`
	Drag                 float64 `json:"drag"`
	SpeedFactor          float64 `json:"speed_factor"`
	SpeedThreshold       float64 `json:"speed_threshold"`
	RefreshRate          float64 `json:"refresh_rate"`
	MultitouchCooldownMs int64   `json:"multitouch_cooldown_ms"`
	SmoothingWindowMs    int64   `json:"smoothing_window_ms"`
}

// NewConfigInfo flattens settings for display
func NewConfigInfo(s config.Settings) ConfigInfo {
	return ConfigInfo{
		Path:                 s.Path,
		Exists:               fileExists(s.Path),
		Device:               s.Device,
		VirtualName:          s.VirtualName,
		Drag:                 s.Drag,
		SpeedFactor:          s.SpeedFactor,
		SpeedThreshold:       s.SpeedThreshold,
		RefreshRate:          s.RefreshRate,
		MultitouchCooldownMs: s.MultitouchCooldown.Milliseconds(),
		SmoothingWindowMs:    s.SmoothingWindow.Milliseconds(),
	}
}

// ConfigCommand reports the effective settings, optionally writing them to
// their config file first
func ConfigCommand(s config.Settings, write bool) *CommandResponse {
	if err := s.Validate(); err != nil {
		return NewErrorResponse(err)
	}

	if write {
		if s.Path == "" {
			return NewErrorResponse(fmt.Errorf("no config path to write to"))
		}
		if err := config.Save(s.Path, s); err != nil {
			return NewErrorResponse(err)
		}
	}

	return NewSuccessResponse(NewConfigInfo(s))
}
