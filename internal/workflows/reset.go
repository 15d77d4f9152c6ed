package workflows

import (
	"fmt"

	"github.com/PolarWolf314/keyward/internal/audit"
)

// ResetResult contains the outcome of a reset operation.
type ResetResult struct {
	KeyFile string

	// Removed is false when there was no key file to delete.
	Removed bool
}

// Reset drops the cached master key and deletes the key file. Every value
// encrypted under the old key becomes unrecoverable; callers must confirm
// with the user first.
func Reset(env *Env) (*ResetResult, error) {
	manager := env.Provider.Keys()
	keyFile := manager.KeyFile()

	removed, err := manager.Reset()
	if err != nil {
		return nil, fmt.Errorf("resetting master key: %w", err)
	}

	entry := audit.NewEntry(audit.OpKeyReset, env.Config.Installation.ID)
	entry.KeyFile = keyFile.Path
	entry.Backend = env.Backend
	audit.Log(env.Settings.AuditPath(), entry)

	env.Logger.Infof("Removed key file %s", keyFile.Path)
	return &ResetResult{KeyFile: keyFile.Path, Removed: removed}, nil
}
