// Package keystore is keyward's platform crypto service.
//
// It encrypts and decrypts the persisted master key using a wrapping key
// that never leaves the operating system's secret storage except for the
// duration of one operation. The wrapping key is stored with
// github.com/99designs/keyring, which selects the macOS Keychain, Secret
// Service, KWallet, Windows Credential Manager, the Linux kernel keyring,
// pass, or an encrypted file, depending on the platform and configuration.
//
// # Format
//
// A sealed blob is:
//
//	version (1 byte) || nonce (24 bytes) || XChaCha20-Poly1305 ciphertext
//
// The keyring item name is bound as additional data.
//
// # Memory
//
// After the first read the wrapping key is held in a memguard enclave and
// decrypted into a locked buffer only while sealing or opening.
//
// Callers depend on the Crypto interface and never see the wrapping key.
package keystore
