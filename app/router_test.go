package app

import (
	"context"
	"testing"

	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/store"
)

func TestRouterDispatch(t *testing.T) {
	r := NewRouter()
	registered := &boxtest.Handler{}
	r.Handle("test/good", registered)

	db := store.MemStore()
	ctx := context.Background()

	_, err := r.Check(ctx, db, &boxtest.Tx{Msg: &boxtest.Msg{RoutePath: "test/good"}})
	assert.Nil(t, err)
	_, err = r.Deliver(ctx, db, &boxtest.Tx{Msg: &boxtest.Msg{RoutePath: "test/good"}})
	assert.Nil(t, err)
	assert.Equal(t, 2, registered.CallCount())

	_, err = r.Deliver(ctx, db, &boxtest.Tx{Msg: &boxtest.Msg{RoutePath: "test/missing"}})
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, 2, registered.CallCount())
}

func TestRouterRegistrationPanics(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &boxtest.Handler{})

	assert.Panics(t, func() {
		r.Handle("test/good", &boxtest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle("no spaces allowed", &boxtest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle("missing_separator", &boxtest.Handler{})
	})
}
