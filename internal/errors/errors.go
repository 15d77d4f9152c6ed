package errors

import "errors"

// Key state errors indicate the in-memory or persisted master key is unusable.
var (
	// ErrInvalidObfuscatedState indicates the cached key blob failed its trailer check.
	// It signals memory corruption or a defect in the writer and is never retried.
	ErrInvalidObfuscatedState = errors.New("invalid obfuscated key state")

	// ErrPersistenceFailure indicates the key file or the keystore failed while
	// loading or generating the master key.
	ErrPersistenceFailure = errors.New("master key persistence failure")

	// ErrKeyNotFound indicates no master key has been generated yet.
	ErrKeyNotFound = errors.New("master key not found")

	// ErrKeyCleared indicates an encryption key was used after it was wiped.
	ErrKeyCleared = errors.New("encryption key has been cleared")

	// ErrInvalidKeyLength indicates the key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid key length")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrEncryptFailed indicates a value could not be encrypted.
	ErrEncryptFailed = errors.New("failed to encrypt value")

	// ErrDecryptFailed indicates authentication or decryption of a value failed.
	ErrDecryptFailed = errors.New("failed to decrypt value")

	// ErrInvalidCiphertext indicates the ciphertext is malformed or truncated.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// Keystore errors indicate the platform key storage cannot serve requests.
var (
	// ErrKeystoreUnavailable indicates the platform keystore could not be opened.
	ErrKeystoreUnavailable = errors.New("keystore unavailable")

	// ErrWrappingKeyMissing indicates the keystore has no wrapping key while an
	// encrypted key file exists.
	ErrWrappingKeyMissing = errors.New("keystore wrapping key missing")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates the configuration file is malformed or holds unsupported values.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrInvalidDateFormat indicates a date filter is not in YYYY-MM-DD format.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
