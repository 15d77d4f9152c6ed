package utils

import (
	"os"
	"testing"
)

func withStdin(t *testing.T, content string) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	if _, err := w.WriteString(content); err != nil {
		t.Fatalf("Failed to write to pipe: %v", err)
	}
	w.Close()

	original := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = original
		r.Close()
	})
}

func TestReadValueFromArgs(t *testing.T) {
	value, err := ReadValue([]string{"JBSWY3DPEHPK3PXP"})
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}
	if string(value) != "JBSWY3DPEHPK3PXP" {
		t.Errorf("Expected argument value, got %q", value)
	}
}

func TestReadValueFromStdinTrimsOneNewline(t *testing.T) {
	withStdin(t, "secret value\n\n")

	value, err := ReadValue(nil)
	if err != nil {
		t.Fatalf("ReadValue failed: %v", err)
	}
	if string(value) != "secret value\n" {
		t.Errorf("Expected a single newline trimmed, got %q", value)
	}
}

func TestReadValueEmptyStdin(t *testing.T) {
	withStdin(t, "")

	if _, err := ReadValue(nil); err == nil {
		t.Error("Expected error for empty stdin")
	}
}

func TestReadPasswordFromEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "hunter2")

	password, err := ReadPassword("Password: ", true)
	if err != nil {
		t.Fatalf("ReadPassword failed: %v", err)
	}
	if string(password) != "hunter2" {
		t.Errorf("Expected env password, got %q", password)
	}
}

func TestReadPasswordRejectsEmptyEnv(t *testing.T) {
	t.Setenv(PasswordEnv, "")

	if _, err := ReadPassword("Password: ", false); err == nil {
		t.Error("Expected error for empty password")
	}
}
