// Package secrets provides keyward's encryption context provider.
//
// The provider owns a per-installation master key, makes sure it is loaded
// or generated exactly once per process, keeps it obfuscated in memory
// between uses, and hands it out only through scoped calls that wipe the key
// on every exit path.
//
// # Components
//
//   - Obfuscate/Deobfuscate: fixed XOR transform with a two byte trailer,
//     applied to the cached key
//   - KeyFile: the master key sealed by the platform keystore at a fixed path
//   - KeyManager: RWMutex-guarded cache with double-checked lazy resolution
//   - EncryptionKey: single-use key material with Clear
//   - EncryptionContext: NaCl secretbox encrypt/decrypt bound to one key
//   - Provider and Dispatcher: the scoped entry points
//
// # Scoped Access
//
//	seed, err := secrets.WithEncryptionContext(provider, func(ec *secrets.EncryptionContext) ([]byte, error) {
//	    return ec.Decrypt(sealedSeed)
//	})
//
// WithEncryptionContextKey does the same with a caller-supplied key (for
// example one from DeriveKeyFromPassword) and clears that key afterwards.
// The Async variants run the work, including any key file I/O, on the
// provider's Dispatcher.
//
// # Failure Policy
//
// A corrupt cache entry yields ErrInvalidObfuscatedState; a key file or
// keystore failure yields ErrPersistenceFailure. Both are final for the
// call: there is no retry and no fallback key. Errors returned by a scoped
// block reach the caller unchanged.
//
// # Security Considerations
//
// The in-memory obfuscation is not encryption. The marker is a public
// constant and anyone able to read process memory can undo it. It only keeps
// the cached key from being an easily pattern-matched plaintext buffer.
//
// Encryption uses NaCl secretbox (XSalsa20-Poly1305) with a random 24-byte
// nonce prepended to the ciphertext, so tampering is detected on decrypt.
package secrets
