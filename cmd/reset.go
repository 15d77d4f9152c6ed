package cmd

import (
	"fmt"

	"github.com/PolarWolf314/keyward/internal/ui"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm that the master key should be destroyed")
}

func resetResetCommandState() {
	resetConfirmed = false
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Destroy the master key",
	Long: `Deletes the master key file and forgets any cached copy. Every value
encrypted under the old key becomes unrecoverable. The next command that
needs the key generates a new one.

Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting reset command")

		if !resetConfirmed {
			fmt.Println(ui.Warning.Sprint("⚠") + " This destroys the master key. Values encrypted with it cannot be recovered.")
			fmt.Println(ui.Info.Sprint("→") + " Re-run with " + ui.Flag.Sprint("--yes") + " to continue")
			return fmt.Errorf("reset not confirmed")
		}

		e, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open keyward: %v", err)
		}

		result, err := workflows.Reset(e)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to reset: %v", err)
		}

		if result.Removed {
			fmt.Println(ui.Mark(true) + " Removed " + ui.Path.Sprint(result.KeyFile))
		} else {
			fmt.Println(ui.Mark(true) + " No master key to remove " + ui.Muted.Sprint(result.KeyFile))
		}
		return nil
	},
}
