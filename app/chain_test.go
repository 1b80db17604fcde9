package app

import (
	"context"
	"testing"

	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/store"
)

func TestChainDecorators(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	first := &boxtest.Decorator{}
	second := &boxtest.Decorator{}
	handler := &boxtest.Handler{}

	// Nil decorators are allowed and skipped.
	stack := ChainDecorators(first, nil).Chain(second).WithHandler(handler)

	_, err := stack.Check(ctx, db, &boxtest.Tx{})
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, db, &boxtest.Tx{})
	assert.Nil(t, err)

	assert.Equal(t, 2, first.CallCount())
	assert.Equal(t, 2, second.CallCount())
	assert.Equal(t, 2, handler.CallCount())
}

func TestChainAbortsOnDecoratorError(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	failing := &boxtest.Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrUnauthorized,
	}
	handler := &boxtest.Handler{}
	stack := ChainDecorators(failing).WithHandler(handler)

	_, err := stack.Check(ctx, db, &boxtest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = stack.Deliver(ctx, db, &boxtest.Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 0, handler.CallCount())
}
