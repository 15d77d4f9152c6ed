package configs

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
	"github.com/google/uuid"
)

const (
	DefaultKeyFileName     = "keyward.key"
	DefaultServiceName     = "keyward"
	DefaultPasswordEnv     = "KEYWARD_KEYRING_PASSWORD"
	DefaultKeystoreBackend = "auto"
)

// KeystoreBackends lists the accepted values of keystore.backend.
var KeystoreBackends = []string{
	"auto", "keychain", "secret-service", "kwallet", "wincred", "keyctl", "pass", "file",
}

type Config struct {
	Installation Installation   `toml:"installation"`
	Keystore     KeystoreConfig `toml:"keystore"`
	Crypto       CryptoConfig   `toml:"crypto"`
}

type Installation struct {
	ID string `toml:"id"`
}

type KeystoreConfig struct {
	Backend     string `toml:"backend"`
	Service     string `toml:"service"`
	FileDir     string `toml:"file_dir"`
	PasswordEnv string `toml:"password_env"`
}

type CryptoConfig struct {
	KeyFile string `toml:"key_file"`
	Workers int    `toml:"workers"`
}

// DefaultConfig returns a configuration with every field at its default and
// no installation id.
func DefaultConfig() *Config {
	return &Config{
		Keystore: KeystoreConfig{
			Backend:     DefaultKeystoreBackend,
			Service:     DefaultServiceName,
			PasswordEnv: DefaultPasswordEnv,
		},
		Crypto: CryptoConfig{
			KeyFile: DefaultKeyFileName,
		},
	}
}

// GenerateInstallationID generates a new UUID identifying this installation.
func GenerateInstallationID() string {
	return uuid.New().String()
}

// LoadConfig loads config.toml, filling defaults for missing values.
// A missing file yields the defaults and is not an error.
func LoadConfig(settings *Settings) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(settings.ConfigPath()); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(settings.ConfigPath(), config); err != nil {
		return nil, fmt.Errorf("failed to load config: %w: %w", kerrors.ErrInvalidConfig, err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to config.toml.
func SaveConfig(settings *Settings, config *Config) error {
	if err := SaveTOML(settings.ConfigPath(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// EnsureConfig loads the configuration and persists it with a fresh
// installation id if it has none yet.
func EnsureConfig(settings *Settings) (*Config, error) {
	config, err := LoadConfig(settings)
	if err != nil {
		return nil, err
	}

	if config.Installation.ID != "" {
		return config, nil
	}

	config.Installation.ID = GenerateInstallationID()
	if err := SaveConfig(settings, config); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Keystore.Backend == "" {
		c.Keystore.Backend = defaults.Keystore.Backend
	}
	if c.Keystore.Service == "" {
		c.Keystore.Service = defaults.Keystore.Service
	}
	if c.Keystore.PasswordEnv == "" {
		c.Keystore.PasswordEnv = defaults.Keystore.PasswordEnv
	}
	if c.Crypto.KeyFile == "" {
		c.Crypto.KeyFile = defaults.Crypto.KeyFile
	}
}

// Validate reports unsupported configuration values.
func (c *Config) Validate() error {
	if !isKnownBackend(c.Keystore.Backend) {
		return fmt.Errorf("%w: unknown keystore backend %q", kerrors.ErrInvalidConfig, c.Keystore.Backend)
	}
	if c.Crypto.Workers < 0 {
		return fmt.Errorf("%w: crypto.workers must not be negative, got %d", kerrors.ErrInvalidConfig, c.Crypto.Workers)
	}
	if filepath.Base(c.Crypto.KeyFile) != c.Crypto.KeyFile {
		return fmt.Errorf("%w: crypto.key_file must be a file name, got %q", kerrors.ErrInvalidConfig, c.Crypto.KeyFile)
	}
	return nil
}

// KeyFilePath returns the fixed location of the encrypted master key.
func (c *Config) KeyFilePath(settings *Settings) string {
	return filepath.Join(settings.DataDir, c.Crypto.KeyFile)
}

// KeyringDir returns the directory used by the file keyring backend.
func (c *Config) KeyringDir(settings *Settings) string {
	if c.Keystore.FileDir != "" {
		return c.Keystore.FileDir
	}
	return filepath.Join(settings.DataDir, "keyring")
}

func isKnownBackend(name string) bool {
	for _, b := range KeystoreBackends {
		if b == name {
			return true
		}
	}
	return false
}
