package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Settings holds the directories keyward reads and writes.
type Settings struct {
	DataDir   string
	ConfigDir string
}

var KeywardSettings *Settings

func init() {
	settings, err := ResolveSettings()
	if err != nil {
		log.Fatalf("error resolving keyward directories: %s", err)
	}
	KeywardSettings = settings
}

// ResolveSettings computes the data and config directories from the
// environment. KEYWARD_DATA_DIR and KEYWARD_CONFIG_DIR take precedence over
// the XDG locations.
func ResolveSettings() (*Settings, error) {
	dataDir := os.Getenv("KEYWARD_DATA_DIR")
	if dataDir == "" {
		xdgData := os.Getenv("XDG_DATA_HOME")
		if xdgData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("error getting home directory: %w", err)
			}
			xdgData = filepath.Join(homeDir, ".local", "share")
		}
		dataDir = filepath.Join(xdgData, "keyward")
	}

	configDir := os.Getenv("KEYWARD_CONFIG_DIR")
	if configDir == "" {
		userConfig, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("error getting config directory: %w", err)
		}
		configDir = filepath.Join(userConfig, "keyward")
	}

	return &Settings{DataDir: dataDir, ConfigDir: configDir}, nil
}

// ConfigPath returns the location of config.toml.
func (s *Settings) ConfigPath() string {
	return filepath.Join(s.ConfigDir, "config.toml")
}

// AuditPath returns the location of the audit log.
func (s *Settings) AuditPath() string {
	return filepath.Join(s.DataDir, "audit.jsonl")
}
