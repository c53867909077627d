package cli

import (
	"fmt"

	"github.com/inertpad/inertpad/commands"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run system diagnostics",
	Long:  `Checks access to /dev/uinput and /dev/input and reports the detected touchpads`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DoctorCommand(GetVersion(), configPath)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
