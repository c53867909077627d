package cli

import "time"

var (
	verbose  bool
	logLevel string

	configPath string

	// tuning overrides, applied only when set on the command line
	drag               float64
	speedFactor        float64
	speedThreshold     float64
	refreshRate        float64
	multitouchCooldown time.Duration
	smoothingWindow    time.Duration
	devicePath         string
	virtualName        string

	// for the root command
	watchConfig bool
	runDaemon   bool
	pidFile     string
	logFile     string

	// for config command
	writeConfig bool
)
