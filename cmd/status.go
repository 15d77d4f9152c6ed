package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/keyward/internal/ui"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where keyward keeps its state",
	Long: `Shows the installation id, the configured keystore backend and whether
the master key file exists. The master key itself is never loaded.

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		e, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open keyward: %v", err)
		}

		result, err := workflows.Status(e)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read status: %v", err)
		}

		if statusJSONOutput {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		}

		printStatus(result)
		return nil
	},
}

func printStatus(result *workflows.StatusResult) {
	workers := fmt.Sprint(result.Workers)
	if result.Workers == 0 {
		workers = "auto"
	}

	fmt.Println("Installation: " + ui.Highlight.Sprint(result.InstallationID))
	fmt.Println("Config:       " + ui.Path.Sprint(result.ConfigPath))
	fmt.Println("Data:         " + ui.Path.Sprint(result.DataDir))
	fmt.Println("Keystore:     " + ui.Highlight.Sprint(result.Backend))
	fmt.Println("Workers:      " + workers)
	fmt.Println("Key file:     " + ui.Path.Sprint(result.KeyFile))
	fmt.Println("Master key:   " + ui.YesNo(result.KeyFileExists))

	if !result.KeyFileExists {
		fmt.Println()
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("keyward init") + " to generate the master key")
	}
}
