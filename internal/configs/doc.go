// Package configs manages keyward's directories and configuration file.
//
// # Directories
//
// Settings are resolved once in init():
//
//   - Data: $KEYWARD_DATA_DIR, else $XDG_DATA_HOME/keyward, else
//     ~/.local/share/keyward. Holds the encrypted master key and the audit log.
//   - Config: $KEYWARD_CONFIG_DIR, else os.UserConfigDir()/keyward.
//
// # Configuration
//
// config.toml is optional. Missing keys take their defaults:
//
//	[installation]
//	id = "..."                  # generated on first EnsureConfig
//
//	[keystore]
//	backend = "auto"            # auto, keychain, secret-service, kwallet,
//	                            # wincred, keyctl, pass or file
//	service = "keyward"
//	file_dir = ""               # defaults to <data>/keyring
//	password_env = "KEYWARD_KEYRING_PASSWORD"
//
//	[crypto]
//	key_file = "keyward.key"
//	workers = 0                 # 0 means GOMAXPROCS
//
// Unknown keys and unsupported values are rejected with ErrInvalidConfig.
package configs
