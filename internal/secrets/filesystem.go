package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
	"github.com/PolarWolf314/keyward/internal/keystore"

	"github.com/awnumar/memguard"
)

// KeyFile persists the master key at a fixed path, sealed by the platform
// keystore. A missing file means no key has been generated yet.
type KeyFile struct {
	Path   string
	Crypto keystore.Crypto
}

// Exists reports whether the key file is present.
func (f *KeyFile) Exists() (bool, error) {
	info, err := os.Stat(f.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat key file %s: %w", f.Path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("key file %s is a directory", f.Path)
	}
	return true, nil
}

// Load reads and unseals the key file.
func (f *KeyFile) Load() (*EncryptionKey, error) {
	sealed, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyNotFound, f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", f.Path, err)
	}

	value, err := f.Crypto.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to unseal key file %s: %w", f.Path, err)
	}
	if len(value) != KeySize {
		memguard.WipeBytes(value)
		return nil, fmt.Errorf("%w: key file %s holds %d bytes", kerrors.ErrInvalidKeyLength, f.Path, len(value))
	}

	return NewEncryptionKey(value), nil
}

// Save seals key and writes it atomically with 0600 permissions.
func (f *KeyFile) Save(key *EncryptionKey) error {
	value := key.Value()
	if value == nil {
		return kerrors.ErrKeyCleared
	}

	sealed, err := f.Crypto.Encrypt(value)
	if err != nil {
		return fmt.Errorf("failed to seal key: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".key-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary key file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set key file permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync key file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close key file: %w", err)
	}

	if err := os.Rename(tmpPath, f.Path); err != nil {
		return fmt.Errorf("failed to save key file %s: %w", f.Path, err)
	}
	return nil
}

// Remove deletes the key file. Removing a missing file is not an error.
func (f *KeyFile) Remove() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove key file %s: %w", f.Path, err)
	}
	return nil
}
