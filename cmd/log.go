package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/keyward/internal/configs"
	"github.com/PolarWolf314/keyward/internal/ui"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	logLimit      int
	logReverse    bool
	logOperations string
	logSince      string
	logUntil      string
	logJSONOutput bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "show only the last N entries")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperations, "operation", "", "filter by operation (comma-separated)")
	logCmd.Flags().StringVar(&logSince, "since", "", "show entries on or after this date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logUntil, "until", "", "show entries on or before this date (YYYY-MM-DD)")
	logCmd.Flags().BoolVar(&logJSONOutput, "json", false, "output one JSON object per line")
}

func resetLogCommandState() {
	logLimit = 0
	logReverse = false
	logOperations = ""
	logSince = ""
	logUntil = ""
	logJSONOutput = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the audit log",
	Long: `Shows key lifecycle and encrypt/decrypt operations recorded for this
installation. The log never contains key material or plaintext.

Operations: key.generate, key.load, key.reset, encrypt, decrypt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		result, err := workflows.Log(configs.KeywardSettings, workflows.LogOptions{
			Limit:      logLimit,
			Reverse:    logReverse,
			Operations: logOperations,
			Since:      logSince,
			Until:      logUntil,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}

		if len(result.Entries) == 0 {
			if !logJSONOutput {
				fmt.Println(ui.Muted.Sprint("no audit entries"))
			}
			return nil
		}

		for _, entry := range result.Entries {
			if logJSONOutput {
				data, err := json.Marshal(entry)
				if err != nil {
					return err
				}
				fmt.Fprintln(os.Stdout, string(data))
				continue
			}
			fmt.Printf("%s  %-13s %s\n",
				ui.Muted.Sprint(workflows.FormatDateTime(entry.Timestamp)),
				entry.Operation,
				workflows.FormatDetails(entry))
		}
		return nil
	},
}
