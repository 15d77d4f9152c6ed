package workflows

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/PolarWolf314/keyward/internal/audit"
	kerrors "github.com/PolarWolf314/keyward/internal/errors"
	"github.com/PolarWolf314/keyward/internal/secrets"

	"github.com/awnumar/memguard"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// Ciphertext is the output of Encrypt.
	Ciphertext string

	// Password must be set for values encrypted in password mode. It is
	// wiped once the key has been derived.
	Password []byte
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Plaintext []byte
	Mode      string
}

// Decrypt opens a value produced by Encrypt.
//
// Returns ErrInvalidCiphertext for malformed input and ErrDecryptFailed when
// the value was tampered with or sealed under a different key.
func Decrypt(ctx context.Context, env *Env, opts DecryptOptions) (*DecryptResult, error) {
	if opts.Password != nil {
		return decryptWithPassword(ctx, env, opts)
	}

	plaintext, err := secrets.WithEncryptionContextAsync(ctx, env.Provider, func(ec *secrets.EncryptionContext) (string, error) {
		return ec.DecryptString(opts.Ciphertext)
	})
	if err != nil {
		return nil, err
	}

	logOperation(env, audit.OpDecrypt, ModeMaster)
	return &DecryptResult{Plaintext: []byte(plaintext), Mode: ModeMaster}, nil
}

func decryptWithPassword(ctx context.Context, env *Env, opts DecryptOptions) (*DecryptResult, error) {
	defer memguard.WipeBytes(opts.Password)

	raw, err := base64.StdEncoding.DecodeString(opts.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrInvalidCiphertext, err)
	}
	if len(raw) < secrets.SaltSize {
		return nil, fmt.Errorf("%w: missing salt", kerrors.ErrInvalidCiphertext)
	}

	key, err := secrets.DeriveKeyFromPassword(opts.Password, raw[:secrets.SaltSize])
	if err != nil {
		return nil, err
	}

	plaintext, err := secrets.WithEncryptionContextKeyAsync(ctx, env.Provider, key, func(ec *secrets.EncryptionContext) ([]byte, error) {
		return ec.Decrypt(raw[secrets.SaltSize:])
	})
	if err != nil {
		return nil, err
	}

	logOperation(env, audit.OpDecrypt, ModePassword)
	return &DecryptResult{Plaintext: plaintext, Mode: ModePassword}, nil
}
