package secrets

import (
	"fmt"
	"sync"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
	logger "github.com/PolarWolf314/keyward/internal/logging"

	"github.com/awnumar/memguard"
)

// KeySource tells where GetKey found the master key.
type KeySource int

const (
	SourceCache KeySource = iota
	SourceFile
	SourceGenerated
)

func (s KeySource) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceFile:
		return "file"
	case SourceGenerated:
		return "generated"
	default:
		return fmt.Sprintf("KeySource(%d)", int(s))
	}
}

// KeyManagerOptions configures a KeyManager.
type KeyManagerOptions struct {
	// KeyFile is where the master key is persisted.
	KeyFile *KeyFile

	Logger logger.Logger

	// OnResolve, if set, is called under the write lock each time the key is
	// loaded from disk or generated. It is not called for cache hits.
	OnResolve func(source KeySource)
}

// KeyManager owns the process-wide master key cache. Construct exactly one
// per process and share it.
type KeyManager struct {
	file      *KeyFile
	log       logger.Logger
	onResolve func(KeySource)

	mu     sync.RWMutex
	cached []byte // obfuscated; nil until the first successful resolve
}

func NewKeyManager(opts KeyManagerOptions) *KeyManager {
	return &KeyManager{
		file:      opts.KeyFile,
		log:       opts.Logger,
		onResolve: opts.OnResolve,
	}
}

// GetKey returns a fresh copy of the master key, loading or generating it on
// first use. Concurrent first calls load or generate exactly once.
//
// Errors wrap ErrInvalidObfuscatedState when the cache is corrupt and
// ErrPersistenceFailure when the key file or keystore fails. Neither is
// retried and nothing is cached on failure.
func (m *KeyManager) GetKey() (*EncryptionKey, error) {
	if key, ok, err := m.cachedKey(); ok {
		return key, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another writer may have resolved the key while we waited.
	if m.cached != nil {
		m.log.Debugf("Master key resolved by a concurrent caller")
		return deobfuscateKey(m.cached)
	}

	key, source, err := m.loadOrGenerate()
	if err != nil {
		return nil, err
	}

	m.cached = Obfuscate(key.Value())
	m.log.Infof("Master key ready (source: %s)", source)
	if m.onResolve != nil {
		m.onResolve(source)
	}

	return key, nil
}

func (m *KeyManager) cachedKey() (*EncryptionKey, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.cached == nil {
		return nil, false, nil
	}
	m.log.Debugf("Master key served from cache")
	key, err := deobfuscateKey(m.cached)
	return key, true, err
}

func (m *KeyManager) loadOrGenerate() (*EncryptionKey, KeySource, error) {
	exists, err := m.file.Exists()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", kerrors.ErrPersistenceFailure, err)
	}

	if exists {
		m.log.Debugf("Loading master key from %s", m.file.Path)
		key, err := m.file.Load()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", kerrors.ErrPersistenceFailure, err)
		}
		return key, SourceFile, nil
	}

	m.log.Debugf("No key file at %s, generating master key", m.file.Path)
	key, err := GenerateKey()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", kerrors.ErrPersistenceFailure, err)
	}
	// A key that cannot be read back after a restart must never be used.
	if err := m.file.Save(key); err != nil {
		key.Clear()
		return nil, 0, fmt.Errorf("%w: %w", kerrors.ErrPersistenceFailure, err)
	}
	return key, SourceGenerated, nil
}

// Cached reports whether the master key is held in memory.
func (m *KeyManager) Cached() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cached != nil
}

// Forget wipes the cached key. The next GetKey goes back to the key file.
func (m *KeyManager) Forget() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cached != nil {
		memguard.WipeBytes(m.cached)
		m.cached = nil
	}
}

// Reset deletes the key file and wipes the cached key under the write lock,
// so no concurrent GetKey can load the old key between the two steps.
// It reports whether a key file was present.
func (m *KeyManager) Reset() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.file.Exists()
	if err != nil {
		return false, err
	}
	if err := m.file.Remove(); err != nil {
		return false, err
	}

	if m.cached != nil {
		memguard.WipeBytes(m.cached)
		m.cached = nil
	}
	m.log.Debugf("Master key reset, removed key file: %t", exists)
	return exists, nil
}

// KeyFile returns the persistence location the manager reads and writes.
func (m *KeyManager) KeyFile() *KeyFile {
	return m.file
}

func deobfuscateKey(blob []byte) (*EncryptionKey, error) {
	value, err := Deobfuscate(blob)
	if err != nil {
		return nil, err
	}
	return NewEncryptionKey(value), nil
}
