package secrets

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// fakeCrypto stands in for the platform keystore. Sealing is a reversible
// XOR with a header, which is enough to tell sealed from raw bytes.
type fakeCrypto struct {
	mu           sync.Mutex
	encryptCalls int
	decryptCalls int
	encryptErr   error
	decryptErr   error
	delay        time.Duration

	// When set, Decrypt signals decryptStarted and waits for releaseDecrypt.
	decryptStarted chan struct{}
	releaseDecrypt chan struct{}
}

var sealedHeader = []byte("sealed:")

func (f *fakeCrypto) Encrypt(plaintext []byte) ([]byte, error) {
	f.mu.Lock()
	f.encryptCalls++
	err := f.encryptErr
	delay := f.delay
	f.mu.Unlock()

	time.Sleep(delay)
	if err != nil {
		return nil, err
	}

	out := append([]byte(nil), sealedHeader...)
	for _, b := range plaintext {
		out = append(out, b^0x5A)
	}
	return out, nil
}

func (f *fakeCrypto) Decrypt(ciphertext []byte) ([]byte, error) {
	f.mu.Lock()
	f.decryptCalls++
	err := f.decryptErr
	started, release := f.decryptStarted, f.releaseDecrypt
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < len(sealedHeader) || string(ciphertext[:len(sealedHeader)]) != string(sealedHeader) {
		return nil, errors.New("not a sealed blob")
	}

	out := make([]byte, 0, len(ciphertext)-len(sealedHeader))
	for _, b := range ciphertext[len(sealedHeader):] {
		out = append(out, b^0x5A)
	}
	return out, nil
}

func (f *fakeCrypto) calls() (encrypt, decrypt int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.encryptCalls, f.decryptCalls
}

func newTestKeyFile(t *testing.T) (*KeyFile, *fakeCrypto) {
	t.Helper()
	crypto := &fakeCrypto{}
	return &KeyFile{
		Path:   filepath.Join(t.TempDir(), "data", "keyward.key"),
		Crypto: crypto,
	}, crypto
}

func newTestManager(t *testing.T) (*KeyManager, *KeyFile, *fakeCrypto) {
	t.Helper()
	file, crypto := newTestKeyFile(t)
	return NewKeyManager(KeyManagerOptions{KeyFile: file}), file, crypto
}

func newTestProvider(t *testing.T, workers int) (*Provider, *KeyManager, *fakeCrypto) {
	t.Helper()
	manager, _, crypto := newTestManager(t)
	return NewProvider(manager, NewDispatcher(workers)), manager, crypto
}

func testKey(t *testing.T) *EncryptionKey {
	t.Helper()
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	return key
}
