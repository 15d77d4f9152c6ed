// Package shared contains helpers for integration tests that drive the
// keyward command tree against a real keyring backend.
package shared

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/keyward/cmd"
	"github.com/PolarWolf314/keyward/internal/configs"
)

// KeyringPasswordEnv is read by the encrypted file keyring in tests.
const KeyringPasswordEnv = "KEYWARD_TEST_KEYRING_PASSWORD"

// SetupFileKeyring points keyward at temporary directories and writes a
// config selecting the encrypted file keyring backend.
func SetupFileKeyring(t *testing.T) *configs.Settings {
	t.Helper()

	root := t.TempDir()
	settings := &configs.Settings{
		DataDir:   filepath.Join(root, "data"),
		ConfigDir: filepath.Join(root, "config"),
	}

	original := configs.KeywardSettings
	configs.KeywardSettings = settings
	cmd.ResetGlobalState()
	t.Cleanup(func() {
		configs.KeywardSettings = original
		cmd.ResetGlobalState()
	})

	t.Setenv(KeyringPasswordEnv, "integration-test")

	config := configs.DefaultConfig()
	config.Keystore.Backend = "file"
	config.Keystore.FileDir = filepath.Join(root, "keyring")
	config.Keystore.PasswordEnv = KeyringPasswordEnv
	if err := configs.SaveConfig(settings, config); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	return settings
}

// Restart simulates a new process: the shared environment and its key
// cache are dropped, while files on disk stay.
func Restart() {
	cmd.ResetGlobalState()
}

// Run executes keyward with args and returns its trimmed output.
func Run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	output, err := CaptureOutput(func() error {
		cmd.RootCmd.SetArgs(args)
		return cmd.RootCmd.Execute()
	})
	return strings.TrimSpace(output), err
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}
