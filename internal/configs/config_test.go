package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
	"github.com/google/uuid"
)

func testSettings(t *testing.T) *Settings {
	t.Helper()
	dir := t.TempDir()
	return &Settings{
		DataDir:   filepath.Join(dir, "data"),
		ConfigDir: filepath.Join(dir, "config"),
	}
}

func TestGenerateInstallationID(t *testing.T) {
	id := GenerateInstallationID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected a valid UUID, got %q: %v", id, err)
	}
	if id == GenerateInstallationID() {
		t.Error("Expected two generated ids to differ")
	}
}

func TestLoadConfigNonExistentReturnsDefaults(t *testing.T) {
	settings := testSettings(t)

	config, err := LoadConfig(settings)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Keystore.Backend != DefaultKeystoreBackend {
		t.Errorf("Expected backend %q, got %q", DefaultKeystoreBackend, config.Keystore.Backend)
	}
	if config.Crypto.KeyFile != DefaultKeyFileName {
		t.Errorf("Expected key file %q, got %q", DefaultKeyFileName, config.Crypto.KeyFile)
	}
	if config.Installation.ID != "" {
		t.Errorf("Expected no installation id, got %q", config.Installation.ID)
	}
	if _, err := os.Stat(settings.ConfigPath()); !os.IsNotExist(err) {
		t.Error("LoadConfig should not create the config file")
	}
}

func TestEnsureConfigCreatesInstallationID(t *testing.T) {
	settings := testSettings(t)

	first, err := EnsureConfig(settings)
	if err != nil {
		t.Fatalf("EnsureConfig failed: %v", err)
	}
	if first.Installation.ID == "" {
		t.Fatal("Expected an installation id to be generated")
	}

	second, err := EnsureConfig(settings)
	if err != nil {
		t.Fatalf("EnsureConfig failed: %v", err)
	}
	if second.Installation.ID != first.Installation.ID {
		t.Errorf("Expected installation id %q to persist, got %q", first.Installation.ID, second.Installation.ID)
	}
}

func TestLoadConfigFillsMissingDefaults(t *testing.T) {
	settings := testSettings(t)
	content := "[keystore]\nbackend = \"file\"\n\n[crypto]\nworkers = 2\n"
	if err := os.MkdirAll(settings.ConfigDir, 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(settings.ConfigPath(), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(settings)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Keystore.Backend != "file" {
		t.Errorf("Expected backend file, got %q", config.Keystore.Backend)
	}
	if config.Keystore.Service != DefaultServiceName {
		t.Errorf("Expected default service, got %q", config.Keystore.Service)
	}
	if config.Crypto.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", config.Crypto.Workers)
	}
	if config.Crypto.KeyFile != DefaultKeyFileName {
		t.Errorf("Expected default key file, got %q", config.Crypto.KeyFile)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "[keystore]\nbackend = \"floppy\"\n"},
		{"negative workers", "[crypto]\nworkers = -1\n"},
		{"key file with directory", "[crypto]\nkey_file = \"../escape.key\"\n"},
		{"unknown key", "[crypto]\ncipher = \"rot13\"\n"},
		{"malformed", "[crypto\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings(t)
			if err := os.MkdirAll(settings.ConfigDir, 0700); err != nil {
				t.Fatalf("Failed to create config dir: %v", err)
			}
			if err := os.WriteFile(settings.ConfigPath(), []byte(tt.content), 0600); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			_, err := LoadConfig(settings)
			if !errors.Is(err, kerrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfigPaths(t *testing.T) {
	settings := &Settings{DataDir: "/data", ConfigDir: "/config"}
	config := DefaultConfig()

	if got := config.KeyFilePath(settings); got != filepath.Join("/data", DefaultKeyFileName) {
		t.Errorf("Unexpected key file path %q", got)
	}
	if got := config.KeyringDir(settings); got != filepath.Join("/data", "keyring") {
		t.Errorf("Unexpected keyring dir %q", got)
	}

	config.Keystore.FileDir = "/elsewhere"
	if got := config.KeyringDir(settings); got != "/elsewhere" {
		t.Errorf("Expected configured keyring dir, got %q", got)
	}
}

func TestResolveSettingsHonoursOverrides(t *testing.T) {
	t.Setenv("KEYWARD_DATA_DIR", "/tmp/keyward-data")
	t.Setenv("KEYWARD_CONFIG_DIR", "/tmp/keyward-config")

	settings, err := ResolveSettings()
	if err != nil {
		t.Fatalf("ResolveSettings failed: %v", err)
	}
	if settings.DataDir != "/tmp/keyward-data" {
		t.Errorf("Expected data dir override, got %q", settings.DataDir)
	}
	if settings.ConfigPath() != filepath.Join("/tmp/keyward-config", "config.toml") {
		t.Errorf("Unexpected config path %q", settings.ConfigPath())
	}
	if settings.AuditPath() != filepath.Join("/tmp/keyward-data", "audit.jsonl") {
		t.Errorf("Unexpected audit path %q", settings.AuditPath())
	}
}
