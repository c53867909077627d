package cli

import (
	"errors"
	"fmt"

	"github.com/inertpad/inertpad/daemon"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background instance",
	Long:  `Sends SIGTERM to the instance started with --daemon.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := daemon.Stop(pidFile)
		if errors.Is(err, daemon.ErrNotRunning) {
			fmt.Println("inertpad is not running")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Sent stop signal to pid %d\n", pid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().StringVar(&pidFile, "pid-file", daemon.DefaultPidFile(), "pid file of the background instance")
}
