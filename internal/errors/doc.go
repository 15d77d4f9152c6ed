// Package errors provides typed error values for keyward.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key state errors: ErrInvalidObfuscatedState, ErrPersistenceFailure,
//     ErrKeyNotFound, ErrKeyCleared, ErrInvalidKeyLength
//   - Crypto errors: ErrEncryptFailed, ErrDecryptFailed, ErrInvalidCiphertext
//   - Keystore errors: ErrKeystoreUnavailable, ErrWrappingKeyMissing
//   - Configuration errors: ErrInvalidConfig
//
// ErrInvalidObfuscatedState and ErrPersistenceFailure are fatal for the
// master key: nothing in keyward retries them. Recovery, such as resetting
// the installation, is left to the caller.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading key file %s: %w: %w", path, kerrors.ErrPersistenceFailure, err)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrPersistenceFailure) {
//	    // Suggest `keyward reset`
//	}
package errors
