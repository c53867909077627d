package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/inertpad/inertpad/config"
	"github.com/inertpad/inertpad/daemon"
	"github.com/inertpad/inertpad/inertia"
	"github.com/inertpad/inertpad/service"
	"github.com/inertpad/inertpad/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// version is set at build time with -ldflags "-X .../cli.version=..."
var version = "dev"

// GetVersion returns the build version
func GetVersion() string {
	return version
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "inertpad",
	Short: "Kinetic scrolling for Linux touchpads",
	Long: `Watches a touchpad and keeps the pointer gliding after a quick flick,
slowing down smoothly until it stops. Motion is injected through a uinput
virtual mouse, so it works under X11 and Wayland alike.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Flags())
		if err != nil {
			return err
		}

		opts := daemon.Options{PidFile: pidFile, LogFile: logFile}
		if runDaemon && !daemon.IsChild() {
			child, err := daemon.Daemonize(opts)
			if err != nil {
				return err
			}
			fmt.Printf("inertpad running in background, pid %d\n", child.Pid)
			return nil
		}

		if daemon.IsChild() {
			release, err := daemon.Attach(opts)
			if err != nil {
				return err
			}
			defer release()
		}

		return service.New(settings, watchConfig, service.WithOverrides(flagOverrides(cmd.Flags()))).Run(cmd.Context())
	},
}

func initConfig() error {
	return utils.Configure(verbose, logLevel)
}

// loadSettings reads the config file and overlays the flags that were set
// explicitly
func loadSettings(flags *pflag.FlagSet) (config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return settings, err
	}

	flagOverrides(flags)(&settings)

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

// flagOverrides returns a func writing the explicitly set flags into
// settings. The service reapplies it after each config reload.
func flagOverrides(flags *pflag.FlagSet) func(*config.Settings) {
	var apply []func(*config.Settings)
	set := func(name string, fn func(*config.Settings)) {
		if flags.Changed(name) {
			apply = append(apply, fn)
		}
	}

	d, sf, st, rr := drag, speedFactor, speedThreshold, refreshRate
	mc, sw, dev, vn := multitouchCooldown, smoothingWindow, devicePath, virtualName

	set("drag", func(s *config.Settings) { s.Drag = d })
	set("speed-factor", func(s *config.Settings) { s.SpeedFactor = sf })
	set("speed-threshold", func(s *config.Settings) { s.SpeedThreshold = st })
	set("refresh-rate", func(s *config.Settings) { s.RefreshRate = rr })
	set("multitouch-cooldown", func(s *config.Settings) { s.MultitouchCooldown = mc })
	set("smoothing-window", func(s *config.Settings) { s.SmoothingWindow = sw })
	set("device", func(s *config.Settings) { s.Device = dev })
	set("virtual-name", func(s *config.Settings) { s.VirtualName = vn })

	return func(s *config.Settings) {
		for _, fn := range apply {
			fn(s)
		}
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return initConfig()
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&configPath, "config", config.DefaultPath(), "path to the config file")

	pf.Float64Var(&drag, "drag", inertia.DefaultDrag, "fraction of velocity lost per tick, in (0, 1)")
	pf.Float64Var(&speedFactor, "speed-factor", inertia.DefaultSpeedFactor, "pointer units per touchpad unit per second per tick")
	pf.Float64Var(&speedThreshold, "speed-threshold", inertia.DefaultSpeedThreshold, "minimum release speed in touchpad units per second")
	pf.Float64Var(&refreshRate, "refresh-rate", inertia.DefaultRefreshRate, "decay ticks per second")
	pf.DurationVar(&multitouchCooldown, "multitouch-cooldown", inertia.DefaultMultitouchCooldown, "suppress flicks for this long after a multi-finger gesture")
	pf.DurationVar(&smoothingWindow, "smoothing-window", inertia.DefaultSmoothingWindow, "time span of samples used to estimate release velocity")
	pf.StringVar(&devicePath, "device", "", "touchpad event device, auto-detected when empty")
	pf.StringVar(&virtualName, "virtual-name", config.DefaultVirtualName, "name of the virtual mouse")

	rootCmd.Flags().BoolVar(&watchConfig, "watch", false, "apply config file changes without a restart")
	rootCmd.Flags().BoolVarP(&runDaemon, "daemon", "d", false, "run in the background")
	rootCmd.Flags().StringVar(&pidFile, "pid-file", daemon.DefaultPidFile(), "pid file of the background instance")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "log file of the background instance")
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to encode response: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}
