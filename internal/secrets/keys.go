package secrets

import (
	"crypto/rand"
	"fmt"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of the master key and of password-derived keys.
	KeySize = 32

	// SaltSize is the length of salts produced by NewSalt.
	SaltSize = 16

	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// EncryptionKey holds secret key material for a single scoped call.
// The scope that receives it clears it; it must not be retained or shared.
type EncryptionKey struct {
	value      []byte
	cleared    bool
	clearCalls int
}

// NewEncryptionKey takes ownership of value. The caller must not use or
// wipe value afterwards; Clear does.
func NewEncryptionKey(value []byte) *EncryptionKey {
	return &EncryptionKey{value: value}
}

// GenerateKey creates a new random key of KeySize bytes.
func GenerateKey() (*EncryptionKey, error) {
	value := make([]byte, KeySize)
	if _, err := rand.Read(value); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return NewEncryptionKey(value), nil
}

// NewSalt returns SaltSize random bytes for DeriveKeyFromPassword.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKeyFromPassword derives a one-off key with Argon2id. Such keys never
// enter the managed cache; pass them to WithEncryptionContextKey.
func DeriveKeyFromPassword(password, salt []byte) (*EncryptionKey, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("password must not be empty")
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("salt must be at least %d bytes, got %d", SaltSize, len(salt))
	}
	return NewEncryptionKey(argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, KeySize)), nil
}

// Value returns the key bytes, or nil once the key has been cleared.
func (k *EncryptionKey) Value() []byte {
	if k.cleared {
		return nil
	}
	return k.value
}

// Clear zeroes the key material. Only the first call has an effect.
func (k *EncryptionKey) Clear() {
	k.clearCalls++
	if k.cleared {
		return
	}
	memguard.WipeBytes(k.value)
	k.value = nil
	k.cleared = true
}

// Cleared reports whether Clear has been called.
func (k *EncryptionKey) Cleared() bool {
	return k.cleared
}

func (k *EncryptionKey) secretboxKey() (*[KeySize]byte, error) {
	if k.cleared {
		return nil, kerrors.ErrKeyCleared
	}
	if len(k.value) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(k.value))
	}
	var key [KeySize]byte
	copy(key[:], k.value)
	return &key, nil
}
