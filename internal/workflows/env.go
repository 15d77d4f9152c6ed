package workflows

import (
	"fmt"

	"github.com/PolarWolf314/keyward/internal/audit"
	"github.com/PolarWolf314/keyward/internal/configs"
	"github.com/PolarWolf314/keyward/internal/keystore"
	logger "github.com/PolarWolf314/keyward/internal/logging"
	"github.com/PolarWolf314/keyward/internal/secrets"
)

// EnvOptions configures Open.
type EnvOptions struct {
	Logger logger.Logger

	// Crypto replaces the platform keyring. Used by tests.
	Crypto keystore.Crypto

	// Backend names Crypto in status output when Crypto is set.
	Backend string
}

// Env is the process-wide composition of keyward's services. Open it once
// at startup and pass it to every workflow.
type Env struct {
	Settings *configs.Settings
	Config   *configs.Config
	Backend  string
	Provider *secrets.Provider
	Logger   logger.Logger
}

// Open loads configuration, opens the keystore and wires the key manager
// and provider. It does not touch the master key.
func Open(settings *configs.Settings, opts EnvOptions) (*Env, error) {
	config, err := configs.EnsureConfig(settings)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	crypto, backend := opts.Crypto, opts.Backend
	if crypto == nil {
		ring, err := keystore.Open(keystore.Options{
			Backend:     config.Keystore.Backend,
			Service:     config.Keystore.Service,
			FileDir:     config.KeyringDir(settings),
			PasswordEnv: config.Keystore.PasswordEnv,
		})
		if err != nil {
			return nil, fmt.Errorf("opening keystore: %w", err)
		}
		crypto, backend = ring, ring.Backend()
	}

	keyFile := &secrets.KeyFile{
		Path:   config.KeyFilePath(settings),
		Crypto: crypto,
	}

	installationID := config.Installation.ID
	auditPath := settings.AuditPath()
	manager := secrets.NewKeyManager(secrets.KeyManagerOptions{
		KeyFile: keyFile,
		Logger:  opts.Logger,
		OnResolve: func(source secrets.KeySource) {
			op := audit.OpKeyLoad
			if source == secrets.SourceGenerated {
				op = audit.OpKeyGenerate
			}
			entry := audit.NewEntry(op, installationID)
			entry.KeyFile = keyFile.Path
			entry.Backend = backend
			audit.Log(auditPath, entry)
		},
	})

	opts.Logger.Debugf("Opened keystore backend %s, key file %s", backend, keyFile.Path)

	return &Env{
		Settings: settings,
		Config:   config,
		Backend:  backend,
		Provider: secrets.NewProvider(manager, secrets.NewDispatcher(config.Crypto.Workers)),
		Logger:   opts.Logger,
	}, nil
}
