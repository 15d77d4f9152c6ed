package cmd

import (
	"fmt"

	"github.com/PolarWolf314/keyward/internal/utils"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
)

var encryptPassword bool

func init() {
	encryptCmd.Flags().BoolVar(&encryptPassword, "password", false, "encrypt with a password instead of the master key")
}

func resetEncryptCommandState() {
	encryptPassword = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a value and print it as an encrypted string",
	Long: `Encrypts a value given as an argument or on stdin and prints the result
as base64 on stdout.

By default the master key is used. With --password the value is sealed under
a key derived from a password instead, so it can be restored on another
installation. The password is read from $KEYWARD_PASSWORD or the terminal.`,
	Example: `  keyward encrypt JBSWY3DPEHPK3PXP
  echo -n "$SEED" | keyward encrypt
  keyward encrypt --password < backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		value, err := utils.ReadValue(args)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read value: %v", err)
		}
		defer memguard.WipeBytes(value)

		opts := workflows.EncryptOptions{Value: value}
		if encryptPassword {
			password, err := utils.ReadPassword("Password: ", true)
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read password: %v", err)
			}
			opts.Password = password
		}

		e, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to open keyward: %v", err)
		}

		result, err := workflows.Encrypt(cmd.Context(), e, opts)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to encrypt: %v", err)
		}

		Logger.Debugf("Encrypted %d bytes in %s mode", len(value), result.Mode)
		fmt.Println(result.Ciphertext)
		return nil
	},
}
