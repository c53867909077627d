package cli

import (
	"fmt"

	"github.com/inertpad/inertpad/commands"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the settings a run would use: the config file with any tuning
flags applied on top. With --write they are saved back to the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd.Flags())
		if err != nil {
			response := commands.NewErrorResponse(err)
			printJson(response)
			return err
		}

		response := commands.ConfigCommand(settings, writeConfig)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolVar(&writeConfig, "write", false, "save the effective settings to the config file")
}
