package cmd

import (
	"github.com/PolarWolf314/keyward/internal/ui"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Load or generate the master key",
	Long: `Makes sure this installation has a master key. The first run generates
a random key, seals it with the platform keyring and writes it to the key
file. Later runs load and verify the existing key.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Resolving master key...")
		defer cleanup()

		e, err := openEnv()
		if err != nil {
			spinner.FinalMSG = ui.Mark(false) + " Failed to open keyward"
			return Logger.ErrorfAndReturn("failed to open keyward: %v", err)
		}

		result, err := workflows.Init(cmd.Context(), e)
		if err != nil {
			spinner.FinalMSG = ui.Mark(false) + " Failed to resolve the master key"
			return Logger.ErrorfAndReturn("failed to resolve master key: %v", err)
		}

		if result.Generated {
			spinner.FinalMSG = ui.Mark(true) + " Generated a new master key at " + ui.Path.Sprint(result.KeyFile)
		} else {
			spinner.FinalMSG = ui.Mark(true) + " Master key loaded from " + ui.Path.Sprint(result.KeyFile)
		}
		return nil
	},
}
