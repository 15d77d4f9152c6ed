package keystore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"sync"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"

	"github.com/99designs/keyring"
	"github.com/awnumar/memguard"
	"golang.org/x/crypto/chacha20poly1305"
)

// Crypto is the trusted boundary that protects the persisted master key.
// Implementations keep their own key material out of reach of callers.
type Crypto interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

const (
	// WrappingKeyItem is the keyring entry holding the wrapping key.
	WrappingKeyItem = "master-wrapping-key"

	wrappingKeySize = chacha20poly1305.KeySize
	formatVersion   = byte(1)
)

// KeyringCrypto seals data with XChaCha20-Poly1305 under a wrapping key kept
// in the platform keyring. Once read, the wrapping key lives in a memguard
// enclave and is only decrypted for the duration of a single operation.
type KeyringCrypto struct {
	ring    keyring.Keyring
	backend string

	mu      sync.Mutex
	enclave *memguard.Enclave
}

// NewKeyringCrypto wraps an already opened keyring.
func NewKeyringCrypto(ring keyring.Keyring, backend string) *KeyringCrypto {
	return &KeyringCrypto{ring: ring, backend: backend}
}

// Backend reports the configured keyring backend name.
func (k *KeyringCrypto) Backend() string {
	return k.backend
}

// Encrypt seals plaintext, creating the wrapping key on first use.
func (k *KeyringCrypto) Encrypt(plaintext []byte) ([]byte, error) {
	enclave, err := k.wrappingKey(true)
	if err != nil {
		return nil, err
	}

	buf, err := enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("opening wrapping key enclave: %w", err)
	}
	defer buf.Destroy()

	aead, err := chacha20poly1305.NewX(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	out := make([]byte, 1+aead.NonceSize(), 1+aead.NonceSize()+len(plaintext)+aead.Overhead())
	out[0] = formatVersion
	nonce := out[1:]
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	return aead.Seal(out, nonce, plaintext, []byte(WrappingKeyItem)), nil
}

// Decrypt opens a blob produced by Encrypt. A missing wrapping key is
// reported as ErrWrappingKeyMissing rather than generating a new one.
func (k *KeyringCrypto) Decrypt(ciphertext []byte) ([]byte, error) {
	headerSize := 1 + chacha20poly1305.NonceSizeX
	if len(ciphertext) < headerSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: sealed key blob is %d bytes", kerrors.ErrInvalidCiphertext, len(ciphertext))
	}
	if ciphertext[0] != formatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", kerrors.ErrInvalidCiphertext, ciphertext[0])
	}

	enclave, err := k.wrappingKey(false)
	if err != nil {
		return nil, err
	}

	buf, err := enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("opening wrapping key enclave: %w", err)
	}
	defer buf.Destroy()

	aead, err := chacha20poly1305.NewX(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	nonce := ciphertext[1:headerSize]
	plaintext, err := aead.Open(nil, nonce, ciphertext[headerSize:], []byte(WrappingKeyItem))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrDecryptFailed, err)
	}
	return plaintext, nil
}

func (k *KeyringCrypto) wrappingKey(create bool) (*memguard.Enclave, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.enclave != nil {
		return k.enclave, nil
	}

	item, err := k.ring.Get(WrappingKeyItem)
	switch {
	case err == nil:
		if len(item.Data) != wrappingKeySize {
			return nil, fmt.Errorf("%w: wrapping key is %d bytes", kerrors.ErrInvalidKeyLength, len(item.Data))
		}
		// The keyring owns item.Data; the enclave gets (and wipes) a copy.
		k.enclave = memguard.NewEnclave(append([]byte(nil), item.Data...))
		return k.enclave, nil
	case !errors.Is(err, keyring.ErrKeyNotFound):
		return nil, fmt.Errorf("%w: reading wrapping key: %w", kerrors.ErrKeystoreUnavailable, err)
	case !create:
		return nil, kerrors.ErrWrappingKeyMissing
	}

	key := make([]byte, wrappingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generating wrapping key: %w", err)
	}

	err = k.ring.Set(keyring.Item{
		Key:                       WrappingKeyItem,
		Data:                      append([]byte(nil), key...),
		Label:                     "keyward wrapping key",
		Description:               "Protects the keyward master key at rest",
		KeychainNotSynchronizable: true,
	})
	if err != nil {
		memguard.WipeBytes(key)
		return nil, fmt.Errorf("%w: storing wrapping key: %w", kerrors.ErrKeystoreUnavailable, err)
	}

	// NewEnclave wipes key.
	k.enclave = memguard.NewEnclave(key)
	return k.enclave, nil
}

// Options selects and configures the keyring backend.
type Options struct {
	Backend     string
	Service     string
	FileDir     string
	PasswordEnv string
}

var backendTypes = map[string]keyring.BackendType{
	"keychain":       keyring.KeychainBackend,
	"secret-service": keyring.SecretServiceBackend,
	"kwallet":        keyring.KWalletBackend,
	"wincred":        keyring.WinCredBackend,
	"keyctl":         keyring.KeyCtlBackend,
	"pass":           keyring.PassBackend,
	"file":           keyring.FileBackend,
}

// Open opens the platform keyring described by opts.
func Open(opts Options) (*KeyringCrypto, error) {
	cfg := keyring.Config{
		ServiceName:                    opts.Service,
		FileDir:                        opts.FileDir,
		FilePasswordFunc:               passwordFunc(opts.PasswordEnv),
		KeyCtlScope:                    "user",
		KeychainAccessibleWhenUnlocked: true,
		LibSecretCollectionName:        opts.Service,
		KWalletAppID:                   opts.Service,
		KWalletFolder:                  opts.Service,
		WinCredPrefix:                  opts.Service,
		PassPrefix:                     opts.Service,
	}

	if opts.Backend != "" && opts.Backend != "auto" {
		backend, ok := backendTypes[opts.Backend]
		if !ok {
			return nil, fmt.Errorf("%w: unknown keystore backend %q", kerrors.ErrInvalidConfig, opts.Backend)
		}
		cfg.AllowedBackends = []keyring.BackendType{backend}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrKeystoreUnavailable, err)
	}

	name := opts.Backend
	if name == "" {
		name = "auto"
	}
	return NewKeyringCrypto(ring, name), nil
}

func passwordFunc(env string) keyring.PromptFunc {
	if env != "" {
		if password, ok := os.LookupEnv(env); ok {
			return keyring.FixedStringPrompt(password)
		}
	}
	return keyring.TerminalPrompt
}
