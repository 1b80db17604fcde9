package app

import (
	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
)

// Application binds together a store, a transaction decoder and a handler
// chain. It is the top level entry point for executing raw operations
// against the state.
type Application struct {
	store   lockbox.CacheableKVStore
	decoder lockbox.TxDecoder
	handler lockbox.Handler
}

// NewApplication constructs an Application from its parts.
func NewApplication(store lockbox.CacheableKVStore, decoder lockbox.TxDecoder, handler lockbox.Handler) *Application {
	return &Application{
		store:   store,
		decoder: decoder,
		handler: handler,
	}
}

// Store exposes the underlying store, mainly for inspection in tests and
// genesis initialization.
func (a *Application) Store() lockbox.CacheableKVStore {
	return a.store
}

// InitFromGenesis runs all initializers against the application store.
// It must be called at most once, before any transaction is processed.
func (a *Application) InitFromGenesis(opts lockbox.Options, inits ...lockbox.Initializer) error {
	cache := a.store.CacheWrap()
	for _, init := range inits {
		if err := init.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	cache.Write()
	return nil
}

// CheckTx decodes and checks a raw operation without committing any state
// change. All writes the handler performs are discarded.
func (a *Application) CheckTx(ctx lockbox.Context, raw []byte) (*lockbox.CheckResult, error) {
	tx, err := a.decoder(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	cache := a.store.CacheWrap()
	defer cache.Discard()
	return a.handler.Check(ctx, cache, tx)
}

// DeliverTx decodes and executes a raw operation. State changes are
// committed only if the handler succeeds; on error the store is left
// untouched.
func (a *Application) DeliverTx(ctx lockbox.Context, raw []byte) (*lockbox.DeliverResult, error) {
	tx, err := a.decoder(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	cache := a.store.CacheWrap()
	res, err := a.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	cache.Write()
	return res, nil
}
