package types

// TouchpadInfo describes an input device that qualifies as a touchpad
type TouchpadInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// Multitouch is true when the device reports protocol B slots
	Multitouch bool `json:"multitouch"`
	// MaxContacts is the highest finger count advertised via BTN_TOOL_* keys
	MaxContacts int `json:"maxContacts"`
}

// VirtualDeviceInfo describes the virtual pointer created for inertial motion
type VirtualDeviceInfo struct {
	Name    string `json:"name"`
	Vendor  uint16 `json:"vendor"`
	Product uint16 `json:"product"`
}
