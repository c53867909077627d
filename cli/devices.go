package cli

import (
	"fmt"

	"github.com/inertpad/inertpad/commands"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List touchpads",
	Long:  `Lists the input devices that look like touchpads and can be opened.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DevicesCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
