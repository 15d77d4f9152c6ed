package workflows

import (
	"context"
	"encoding/base64"

	"github.com/PolarWolf314/keyward/internal/audit"
	"github.com/PolarWolf314/keyward/internal/secrets"

	"github.com/awnumar/memguard"
)

// Encryption modes.
const (
	ModeMaster   = "master"
	ModePassword = "password"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Value is the plaintext to protect.
	Value []byte

	// Password, if set, derives a one-off key instead of using the master
	// key. It is wiped once the key has been derived.
	Password []byte
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// Ciphertext is standard base64. In password mode the salt precedes the
	// sealed value inside the encoding.
	Ciphertext string

	Mode string
}

// Encrypt seals a value under the master key, or under a password-derived
// key when opts.Password is set.
func Encrypt(ctx context.Context, env *Env, opts EncryptOptions) (*EncryptResult, error) {
	if opts.Password != nil {
		return encryptWithPassword(ctx, env, opts)
	}

	ciphertext, err := secrets.WithEncryptionContextAsync(ctx, env.Provider, func(ec *secrets.EncryptionContext) (string, error) {
		return ec.EncryptString(string(opts.Value))
	})
	if err != nil {
		return nil, err
	}

	logOperation(env, audit.OpEncrypt, ModeMaster)
	return &EncryptResult{Ciphertext: ciphertext, Mode: ModeMaster}, nil
}

func encryptWithPassword(ctx context.Context, env *Env, opts EncryptOptions) (*EncryptResult, error) {
	salt, err := secrets.NewSalt()
	if err != nil {
		return nil, err
	}

	key, err := secrets.DeriveKeyFromPassword(opts.Password, salt)
	memguard.WipeBytes(opts.Password)
	if err != nil {
		return nil, err
	}

	sealed, err := secrets.WithEncryptionContextKeyAsync(ctx, env.Provider, key, func(ec *secrets.EncryptionContext) ([]byte, error) {
		return ec.Encrypt(opts.Value)
	})
	if err != nil {
		return nil, err
	}

	logOperation(env, audit.OpEncrypt, ModePassword)
	return &EncryptResult{
		Ciphertext: base64.StdEncoding.EncodeToString(append(salt, sealed...)),
		Mode:       ModePassword,
	}, nil
}

func logOperation(env *Env, op, mode string) {
	entry := audit.NewEntry(op, env.Config.Installation.ID)
	entry.Mode = mode
	audit.Log(env.Settings.AuditPath(), entry)
}
