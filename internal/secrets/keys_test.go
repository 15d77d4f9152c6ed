package secrets

import (
	"bytes"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
)

func TestGenerateKey(t *testing.T) {
	first := testKey(t)
	second := testKey(t)

	if len(first.Value()) != KeySize {
		t.Fatalf("Expected %d byte key, got %d", KeySize, len(first.Value()))
	}
	if bytes.Equal(first.Value(), second.Value()) {
		t.Error("Expected two generated keys to differ")
	}
}

func TestClearWipesKeyMaterial(t *testing.T) {
	value := bytes.Repeat([]byte{0x42}, KeySize)
	key := NewEncryptionKey(value)

	key.Clear()

	if !key.Cleared() {
		t.Error("Expected key to report cleared")
	}
	if key.Value() != nil {
		t.Error("Expected Value to return nil after Clear")
	}
	if !bytes.Equal(value, make([]byte, KeySize)) {
		t.Errorf("Expected underlying buffer to be zeroed, got %x", value)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	key := testKey(t)

	key.Clear()
	key.Clear()

	if !key.Cleared() {
		t.Error("Expected key to report cleared")
	}
	if key.clearCalls != 2 {
		t.Errorf("Expected 2 recorded Clear calls, got %d", key.clearCalls)
	}
}

func TestClearedKeyCannotBeUsed(t *testing.T) {
	key := testKey(t)
	ctx := newEncryptionContext(key)
	key.Clear()

	if _, err := ctx.Encrypt([]byte("x")); !errors.Is(err, kerrors.ErrKeyCleared) {
		t.Errorf("Expected ErrKeyCleared, got %v", err)
	}
}

func TestDeriveKeyFromPassword(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}
	if len(salt) != SaltSize {
		t.Fatalf("Expected %d byte salt, got %d", SaltSize, len(salt))
	}

	first, err := DeriveKeyFromPassword([]byte("hunter2"), salt)
	if err != nil {
		t.Fatalf("DeriveKeyFromPassword failed: %v", err)
	}
	again, err := DeriveKeyFromPassword([]byte("hunter2"), salt)
	if err != nil {
		t.Fatalf("DeriveKeyFromPassword failed: %v", err)
	}
	if len(first.Value()) != KeySize {
		t.Fatalf("Expected %d byte key, got %d", KeySize, len(first.Value()))
	}
	if !bytes.Equal(first.Value(), again.Value()) {
		t.Error("Expected the same password and salt to derive the same key")
	}

	otherSalt, _ := NewSalt()
	other, err := DeriveKeyFromPassword([]byte("hunter2"), otherSalt)
	if err != nil {
		t.Fatalf("DeriveKeyFromPassword failed: %v", err)
	}
	if bytes.Equal(first.Value(), other.Value()) {
		t.Error("Expected a different salt to derive a different key")
	}
}

func TestDeriveKeyFromPasswordRejectsBadInput(t *testing.T) {
	salt, _ := NewSalt()

	if _, err := DeriveKeyFromPassword(nil, salt); err == nil {
		t.Error("Expected error for empty password")
	}
	if _, err := DeriveKeyFromPassword([]byte("pw"), salt[:4]); err == nil {
		t.Error("Expected error for short salt")
	}
}
