package app

import (
	"regexp"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
)

// Router maintains a mapping of message paths to handlers. It implements
// lockbox.Handler itself, dispatching on the path of the transaction's
// message.
type Router struct {
	routes map[string]lockbox.Handler
}

var _ lockbox.Registry = (*Router)(nil)
var _ lockbox.Handler = (*Router)(nil)

// isPath defines the valid format of a message path.
var isPath = regexp.MustCompile(`^[a-z0-9_]{3,20}/[a-z0-9_]{3,20}$`)

// NewRouter initializes a Router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]lockbox.Handler),
	}
}

// Handle registers a handler for the given message path. It panics on a
// malformed path or a duplicate registration, as both are programmer
// errors that must be caught during initialization.
func (r *Router) Handle(path string, h lockbox.Handler) {
	if !isPath.MatchString(path) {
		panic("invalid path: " + path)
	}
	if _, ok := r.routes[path]; ok {
		panic("re-registering route: " + path)
	}
	r.routes[path] = h
}

// handler returns the handler registered for the message of the given
// transaction, or a handler that fails every call if none is registered.
func (r *Router) handler(tx lockbox.Tx) lockbox.Handler {
	path := lockbox.GetPath(tx)
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the handler registered for the transaction's message.
func (r *Router) Check(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	return r.handler(tx).Check(ctx, store, tx)
}

// Deliver dispatches to the handler registered for the transaction's message.
func (r *Router) Deliver(ctx lockbox.Context, store lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	return r.handler(tx).Deliver(ctx, store, tx)
}

// notFoundHandler always returns a not found error with the given hint.
type notFoundHandler string

func (h notFoundHandler) Check(lockbox.Context, lockbox.KVStore, lockbox.Tx) (*lockbox.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(h))
}

func (h notFoundHandler) Deliver(lockbox.Context, lockbox.KVStore, lockbox.Tx) (*lockbox.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", string(h))
}
