package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/keyward/internal/secrets"
)

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// KeyFile is where the sealed master key lives.
	KeyFile string

	// Generated is true when this call created the master key.
	Generated bool
}

// Init makes sure the master key exists, loading it or generating and
// persisting a new one.
//
// Returns an error wrapping ErrPersistenceFailure if the key file or the
// keystore cannot be used. Nothing is retried.
func Init(ctx context.Context, env *Env) (*InitResult, error) {
	keyFile := env.Provider.Keys().KeyFile()

	existed, err := keyFile.Exists()
	if err != nil {
		return nil, fmt.Errorf("checking key file: %w", err)
	}

	_, err = secrets.WithEncryptionContextAsync(ctx, env.Provider, func(*secrets.EncryptionContext) (struct{}, error) {
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	return &InitResult{KeyFile: keyFile.Path, Generated: !existed}, nil
}
