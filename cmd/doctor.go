package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/keyward/internal/ui"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/spf13/cobra"
)

var doctorJSONOutput bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the installation for problems",
	Long: `Runs health checks on the config file, the master key file and the
keystore. The master key is unsealed to prove the keystore still holds its
wrapping key, then wiped.

Exits with an error if any check fails.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting doctor command")

		e, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open keyward: %v", err)
		}

		result := workflows.Doctor(e)

		if doctorJSONOutput {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(result); err != nil {
				return err
			}
		} else {
			printDoctorResult(result)
		}

		if result.HasErrors() {
			return fmt.Errorf("%d check(s) failed", result.Summary.Errors)
		}
		return nil
	},
}

func printDoctorResult(result *workflows.DoctorResult) {
	for _, check := range result.Checks {
		var mark string
		switch check.Status {
		case workflows.CheckPass:
			mark = ui.Success.Sprint("✓")
		case workflows.CheckWarning:
			mark = ui.Warning.Sprint("⚠")
		default:
			mark = ui.Error.Sprint("✗")
		}
		fmt.Printf("%s %s: %s\n", mark, check.Name, check.Message)
		if check.Suggestion != "" && check.Status != workflows.CheckPass {
			fmt.Println("  " + ui.Info.Sprint("→") + " " + check.Suggestion)
		}
	}

	fmt.Println()
	fmt.Printf("%d passed, %d warnings, %d errors\n",
		result.Summary.Passed, result.Summary.Warnings, result.Summary.Errors)
}
