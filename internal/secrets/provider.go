package secrets

import "context"

// Provider hands out scoped encryption contexts bound to the master key.
// Build one per process at startup and inject it into every consumer.
type Provider struct {
	keys       *KeyManager
	dispatcher *Dispatcher
}

func NewProvider(keys *KeyManager, dispatcher *Dispatcher) *Provider {
	return &Provider{keys: keys, dispatcher: dispatcher}
}

// Keys returns the provider's key manager.
func (p *Provider) Keys() *KeyManager {
	return p.keys
}

// WithEncryptionContext runs block with a context bound to the master key
// and clears that key before returning, whether block succeeds, fails or
// panics. Errors from block are returned unchanged.
func WithEncryptionContext[R any](p *Provider, block func(*EncryptionContext) (R, error)) (R, error) {
	key, err := p.keys.GetKey()
	if err != nil {
		var zero R
		return zero, err
	}
	return WithEncryptionContextKey(key, block)
}

// WithEncryptionContextKey runs block with a context bound to key, bypassing
// the master key cache. The caller gives up key: it is cleared on return.
func WithEncryptionContextKey[R any](key *EncryptionKey, block func(*EncryptionContext) (R, error)) (R, error) {
	defer key.Clear()
	return block(newEncryptionContext(key))
}

// WithEncryptionContextAsync is WithEncryptionContext with key resolution and
// block running on the provider's dispatcher. ctx bounds only the wait for a
// dispatcher slot; started work is not cancelled.
func WithEncryptionContextAsync[R any](ctx context.Context, p *Provider, block func(*EncryptionContext) (R, error)) (R, error) {
	return dispatch(ctx, p.dispatcher, func() (R, error) {
		return WithEncryptionContext(p, block)
	})
}

// WithEncryptionContextKeyAsync is WithEncryptionContextKey on the
// provider's dispatcher. key is cleared even if ctx ends before a slot frees.
func WithEncryptionContextKeyAsync[R any](ctx context.Context, p *Provider, key *EncryptionKey, block func(*EncryptionContext) (R, error)) (R, error) {
	started := false
	defer func() {
		if !started {
			key.Clear()
		}
	}()

	return dispatch(ctx, p.dispatcher, func() (R, error) {
		started = true
		return WithEncryptionContextKey(key, block)
	})
}
