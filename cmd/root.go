package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/keyward/internal/configs"
	"github.com/PolarWolf314/keyward/internal/keystore"
	logger "github.com/PolarWolf314/keyward/internal/logging"
	"github.com/PolarWolf314/keyward/internal/ui"
	"github.com/PolarWolf314/keyward/internal/workflows"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	// env is opened on first use and shared by every command in the process.
	env        *workflows.Env
	envOptions workflows.EnvOptions

	RootCmd = &cobra.Command{
		Use:   "keyward",
		Short: "Keep secrets encrypted at rest under a per-installation master key",
		Long: `keyward owns a per-installation master key, sealed on disk by the
platform keyring, and uses it to encrypt and decrypt secrets such as TOTP
seeds and backup passwords.

Run 'keyward init' once to generate the master key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing keyward with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	addVerbosityFlags(RootCmd.PersistentFlags())

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(resetCmd)
	RootCmd.AddCommand(doctorCmd)
	RootCmd.AddCommand(logCmd)
}

func addVerbosityFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	fs.BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

// openEnv wires config, keystore and provider. The master key is not
// touched until a workflow asks for it.
func openEnv() (*workflows.Env, error) {
	if env != nil {
		return env, nil
	}

	opts := envOptions
	opts.Logger = Logger
	opened, err := workflows.Open(configs.KeywardSettings, opts)
	if err != nil {
		return nil, err
	}
	env = opened
	return env, nil
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, ui.Mark(false)+" "+err.Error())
		return 1
	}
	return 0
}

// Helper functions for testing

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	env = nil
	envOptions = workflows.EnvOptions{}
	Logger = logger.Logger{}
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetStatusCommandState()
	resetResetCommandState()
	resetDoctorCommandState()
	resetLogCommandState()
}

// SetCrypto replaces the platform keyring for testing.
func SetCrypto(crypto keystore.Crypto, backend string) {
	env = nil
	envOptions.Crypto = crypto
	envOptions.Backend = backend
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
