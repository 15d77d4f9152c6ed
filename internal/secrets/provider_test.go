package secrets

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
)

var errBlockFailed = errors.New("block failed")

func TestWithEncryptionContextRoundTrip(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)

	ciphertext, err := WithEncryptionContext(provider, func(ec *EncryptionContext) ([]byte, error) {
		return ec.Encrypt([]byte("totp seed"))
	})
	if err != nil {
		t.Fatalf("Encrypt scope failed: %v", err)
	}

	plaintext, err := WithEncryptionContext(provider, func(ec *EncryptionContext) ([]byte, error) {
		return ec.Decrypt(ciphertext)
	})
	if err != nil {
		t.Fatalf("Decrypt scope failed: %v", err)
	}
	if string(plaintext) != "totp seed" {
		t.Errorf("Expected %q, got %q", "totp seed", plaintext)
	}
}

func TestWithEncryptionContextClearsKeyOnce(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)

	var captured *EncryptionKey
	_, err := WithEncryptionContext(provider, func(ec *EncryptionContext) (struct{}, error) {
		captured = ec.key
		if captured.Cleared() {
			t.Error("Key must not be cleared inside the scope")
		}
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Scope failed: %v", err)
	}

	assertClearedOnce(t, captured)
}

func TestWithEncryptionContextPropagatesBlockError(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)

	var captured *EncryptionKey
	_, err := WithEncryptionContext(provider, func(ec *EncryptionContext) (int, error) {
		captured = ec.key
		return 0, errBlockFailed
	})
	if err != errBlockFailed {
		t.Errorf("Expected the block's error unchanged, got %v", err)
	}
	assertClearedOnce(t, captured)
}

func TestWithEncryptionContextClearsKeyOnPanic(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)

	var captured *EncryptionKey
	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("Expected panic to propagate, got %v", r)
			}
		}()
		_, _ = WithEncryptionContext(provider, func(ec *EncryptionContext) (int, error) {
			captured = ec.key
			panic("boom")
		})
	}()

	assertClearedOnce(t, captured)
}

func TestWithEncryptionContextKeyFailure(t *testing.T) {
	provider, manager, crypto := newTestProvider(t, 2)
	crypto.encryptErr = errors.New("keystore unavailable")

	called := false
	_, err := WithEncryptionContext(provider, func(ec *EncryptionContext) (int, error) {
		called = true
		return 0, nil
	})
	if !errors.Is(err, kerrors.ErrPersistenceFailure) {
		t.Errorf("Expected ErrPersistenceFailure, got %v", err)
	}
	if called {
		t.Error("Block must not run without a key")
	}
	if manager.Cached() {
		t.Error("Nothing should be cached")
	}
}

func TestWithEncryptionContextKeyBypassesCache(t *testing.T) {
	provider, manager, crypto := newTestProvider(t, 2)
	salt, _ := NewSalt()
	key, err := DeriveKeyFromPassword([]byte("backup password"), salt)
	if err != nil {
		t.Fatalf("DeriveKeyFromPassword failed: %v", err)
	}

	ciphertext, err := WithEncryptionContextKey(key, func(ec *EncryptionContext) ([]byte, error) {
		return ec.Encrypt([]byte("export"))
	})
	if err != nil {
		t.Fatalf("Scope failed: %v", err)
	}
	assertClearedOnce(t, key)

	if manager.Cached() {
		t.Error("A caller-supplied key must not touch the managed cache")
	}
	if encrypts, decrypts := crypto.calls(); encrypts+decrypts != 0 {
		t.Error("A caller-supplied key must not touch the keystore")
	}

	again, _ := DeriveKeyFromPassword([]byte("backup password"), salt)
	plaintext, err := WithEncryptionContextKeyAsync(context.Background(), provider, again, func(ec *EncryptionContext) ([]byte, error) {
		return ec.Decrypt(ciphertext)
	})
	if err != nil {
		t.Fatalf("Async scope failed: %v", err)
	}
	if string(plaintext) != "export" {
		t.Errorf("Expected %q, got %q", "export", plaintext)
	}
	assertClearedOnce(t, again)
}

func TestWithEncryptionContextKeyClearsOnError(t *testing.T) {
	key := testKey(t)

	_, err := WithEncryptionContextKey(key, func(ec *EncryptionContext) (string, error) {
		return "", errBlockFailed
	})
	if !errors.Is(err, errBlockFailed) {
		t.Errorf("Expected block error, got %v", err)
	}
	assertClearedOnce(t, key)
}

func TestContextUnusableAfterScope(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)

	var leaked *EncryptionContext
	_, err := WithEncryptionContext(provider, func(ec *EncryptionContext) (struct{}, error) {
		leaked = ec
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Scope failed: %v", err)
	}

	if _, err := leaked.Encrypt([]byte("late")); !errors.Is(err, kerrors.ErrKeyCleared) {
		t.Errorf("Expected ErrKeyCleared, got %v", err)
	}
}

func TestWithEncryptionContextAsync(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)

	var captured *EncryptionKey
	encrypted, err := WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) (string, error) {
		captured = ec.key
		return ec.EncryptString("JBSWY3DPEHPK3PXP")
	})
	if err != nil {
		t.Fatalf("Async scope failed: %v", err)
	}
	assertClearedOnce(t, captured)

	decrypted, err := WithEncryptionContext(provider, func(ec *EncryptionContext) (string, error) {
		return ec.DecryptString(encrypted)
	})
	if err != nil {
		t.Fatalf("Sync scope failed: %v", err)
	}
	if decrypted != "JBSWY3DPEHPK3PXP" {
		t.Errorf("Expected seed back, got %q", decrypted)
	}
}

func TestWithEncryptionContextAsyncPropagatesErrorAndPanic(t *testing.T) {
	provider, _, _ := newTestProvider(t, 1)

	var captured *EncryptionKey
	_, err := WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) (int, error) {
		captured = ec.key
		return 0, errBlockFailed
	})
	if err != errBlockFailed {
		t.Errorf("Expected the block's error unchanged, got %v", err)
	}
	assertClearedOnce(t, captured)

	func() {
		defer func() {
			if r := recover(); r != "async boom" {
				t.Errorf("Expected panic on the caller, got %v", r)
			}
		}()
		_, _ = WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) (int, error) {
			captured = ec.key
			panic("async boom")
		})
	}()
	assertClearedOnce(t, captured)

	// The slot taken by the panicking job must have been released.
	if _, err := WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) (int, error) {
		return 1, nil
	}); err != nil {
		t.Errorf("Expected dispatcher to recover after panic, got %v", err)
	}
}

func TestWithEncryptionContextKeyAsyncClearsWhenContextEnds(t *testing.T) {
	provider, _, _ := newTestProvider(t, 1)

	release := make(chan struct{})
	running := make(chan struct{})
	go func() {
		_, _ = WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) (int, error) {
			close(running)
			<-release
			return 0, nil
		})
	}()
	<-running
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	key := testKey(t)
	called := false
	_, err := WithEncryptionContextKeyAsync(ctx, provider, key, func(ec *EncryptionContext) (int, error) {
		called = true
		return 0, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
	if called {
		t.Error("Block must not run when no slot was acquired")
	}
	assertClearedOnce(t, key)
}

func TestAsyncCallsShareOneKeyResolution(t *testing.T) {
	const callers = 32
	provider, _, crypto := newTestProvider(t, 8)
	crypto.delay = 10 * time.Millisecond

	var wg sync.WaitGroup
	results := make([][]byte, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) ([]byte, error) {
				return append([]byte(nil), ec.key.Value()...), nil
			})
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("Caller %d failed: %v", i, errs[i])
		}
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("Caller %d saw a different key", i)
		}
	}
	if encrypts, _ := crypto.calls(); encrypts != 1 {
		t.Errorf("Expected one generate-and-persist, got %d", encrypts)
	}
}

func TestDispatcherBoundsConcurrency(t *testing.T) {
	provider, _, _ := newTestProvider(t, 2)
	if provider.dispatcher.Size() != 2 {
		t.Fatalf("Expected dispatcher size 2, got %d", provider.dispatcher.Size())
	}

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = WithEncryptionContextAsync(context.Background(), provider, func(ec *EncryptionContext) (int, error) {
				n := atomic.AddInt32(&active, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return 0, nil
			})
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("Expected at most 2 concurrent jobs, saw %d", peak)
	}
}

func TestNewDispatcherDefaultsToGOMAXPROCS(t *testing.T) {
	if NewDispatcher(0).Size() < 1 {
		t.Error("Expected a positive default dispatcher size")
	}
}

func assertClearedOnce(t *testing.T, key *EncryptionKey) {
	t.Helper()
	if key == nil {
		t.Fatal("Block never received a key")
	}
	if !key.Cleared() {
		t.Error("Expected key to be cleared after the scope")
	}
	if key.clearCalls != 1 {
		t.Errorf("Expected exactly one Clear, got %d", key.clearCalls)
	}
}
