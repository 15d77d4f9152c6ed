package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/PolarWolf314/keyward/internal/utils"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

var decryptPassword bool

func init() {
	decryptCmd.Flags().BoolVar(&decryptPassword, "password", false, "decrypt a value encrypted with --password")
}

func resetDecryptCommandState() {
	decryptPassword = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [value]",
	Short: "Decrypt an encrypted string",
	Long: `Decrypts a value produced by 'keyward encrypt', given as an argument or
on stdin, and writes the plaintext to stdout.

Values encrypted with --password need --password here too.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		input, err := utils.ReadValue(args)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read value: %v", err)
		}

		opts := workflows.DecryptOptions{Ciphertext: strings.TrimSpace(string(input))}
		if decryptPassword {
			password, err := utils.ReadPassword("Password: ", false)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
			opts.Password = password
		}

		e, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open keyward: %v", err)
		}

		result, err := workflows.Decrypt(cmd.Context(), e, opts)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to decrypt: %v", err)
		}
		defer memguard.WipeBytes(result.Plaintext)

		if _, err := os.Stdout.Write(result.Plaintext); err != nil {
			return err
		}
		fmt.Println()
		return nil
	},
}
