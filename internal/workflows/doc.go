// Package workflows provides high-level orchestration for keyward commands.
//
// Workflows coordinate configs, keystore, secrets and audit to implement
// complete user-facing features, independent of CLI concerns like flag
// parsing, spinners and output formatting.
//
// # Composition
//
// Open builds the process-wide Env once: it loads the configuration, opens
// the platform keystore, and wires a single KeyManager and Provider. Every
// workflow receives that Env, so all callers share one master key cache.
//
// # Available Workflows
//
//   - Init: loads or generates the master key
//   - Status: reports paths, backend and whether a key exists
//   - Encrypt: seals a value under the master key or a password
//   - Decrypt: opens a value produced by Encrypt
//   - Reset: forgets the master key and deletes the key file
//   - Doctor: runs health checks on config, key file and keystore
//   - Log: reads and filters the audit log
//
// # Error Handling
//
// Workflows return errors wrapping the sentinels of internal/errors:
//
//	result, err := workflows.Init(ctx, env)
//	if errors.Is(err, kerrors.ErrPersistenceFailure) {
//	    // Suggest `keyward reset`
//	}
//
// # Context Usage
//
// Workflows that touch key material accept a context.Context. It bounds the
// wait for a background crypto slot; key resolution that has started always
// runs to completion.
package workflows
