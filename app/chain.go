package app

import (
	"github.com/lockbox-io/lockbox"
)

// Decorators holds a chain of decorators, to be wrapped around a handler.
type Decorators struct {
	chain []lockbox.Decorator
}

// ChainDecorators takes a variable number of decorators and composes them,
// first to last. Nil decorators are permitted and skipped, which allows
// optional elements in a statically declared chain.
func ChainDecorators(chain ...lockbox.Decorator) Decorators {
	return Decorators{chain: cutNil(chain)}
}

// Chain appends more decorators to the end of the current chain.
func (d Decorators) Chain(chain ...lockbox.Decorator) Decorators {
	return Decorators{chain: append(d.chain, cutNil(chain)...)}
}

// WithHandler seals the chain around the given handler. The result is a
// handler that passes each call through every decorator in order before
// reaching h.
func (d Decorators) WithHandler(h lockbox.Handler) lockbox.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

func cutNil(chain []lockbox.Decorator) []lockbox.Decorator {
	res := make([]lockbox.Decorator, 0, len(chain))
	for _, d := range chain {
		if d != nil {
			res = append(res, d)
		}
	}
	return res
}

// step binds one decorator to the rest of the chain so it satisfies the
// Handler interface expected by the decorator above it.
type step struct {
	d    lockbox.Decorator
	next lockbox.Handler
}

var _ lockbox.Handler = step{}

func (s step) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
