package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/keyward/internal/configs"
)

// xorCrypto stands in for the platform keyring in command tests.
type xorCrypto struct{}

func (xorCrypto) Encrypt(plaintext []byte) ([]byte, error) {
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ 0x5A
	}
	return out, nil
}

func (x xorCrypto) Decrypt(ciphertext []byte) ([]byte, error) {
	return x.Encrypt(ciphertext)
}

// setupTestEnvironment points keyward at temporary directories and a fake
// keystore, restoring global state when the test ends.
func setupTestEnvironment(t *testing.T) *configs.Settings {
	t.Helper()

	root := t.TempDir()
	settings := &configs.Settings{
		DataDir:   filepath.Join(root, "data"),
		ConfigDir: filepath.Join(root, "config"),
	}

	original := configs.KeywardSettings
	configs.KeywardSettings = settings
	t.Cleanup(func() {
		configs.KeywardSettings = original
		ResetGlobalState()
	})

	ResetGlobalState()
	SetCrypto(xorCrypto{}, "test")
	return settings
}

// runCommand executes the root command with args and returns everything it
// printed.
func runCommand(args ...string) (string, error) {
	return captureOutput(func() error {
		RootCmd.SetArgs(args)
		return RootCmd.Execute()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
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
