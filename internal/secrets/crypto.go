package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// EncryptionContext encrypts and decrypts values with the key of the scope
// it was created for. It stops working once that scope has returned.
type EncryptionContext struct {
	key *EncryptionKey
}

func newEncryptionContext(key *EncryptionKey) *EncryptionContext {
	return &EncryptionContext{key: key}
}

// Encrypt seals plaintext with NaCl secretbox. The random 24-byte nonce is
// prepended to the ciphertext.
func (c *EncryptionContext) Encrypt(plaintext []byte) ([]byte, error) {
	key, err := c.key.secretboxKey()
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(key[:])

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %w", kerrors.ErrEncryptFailed, err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Decrypt opens a value produced by Encrypt. Truncated input fails with
// ErrInvalidCiphertext, tampered input or a different key with ErrDecryptFailed.
func (c *EncryptionContext) Decrypt(ciphertext []byte) ([]byte, error) {
	key, err := c.key.secretboxKey()
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(key[:])

	if len(ciphertext) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: %d bytes is shorter than nonce and tag", kerrors.ErrInvalidCiphertext, len(ciphertext))
	}

	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, key)
	if !ok {
		return nil, kerrors.ErrDecryptFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

// EncryptString encrypts s and returns the ciphertext as standard base64.
func (c *EncryptionContext) EncryptString(s string) (string, error) {
	ciphertext, err := c.Encrypt([]byte(s))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptString reverses EncryptString.
func (c *EncryptionContext) DecryptString(encrypted string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %w", kerrors.ErrInvalidCiphertext, err)
	}
	plaintext, err := c.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
