package utils

import (
	"context"
	"testing"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/store"
)

// writingHandler writes the given key/value pair and then returns the
// configured error.
type writingHandler struct {
	key   []byte
	value []byte
	err   error
}

func (h writingHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	db.Set(h.key, h.value)
	return &lockbox.CheckResult{}, h.err
}

func (h writingHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	db.Set(h.key, h.value)
	return &lockbox.DeliverResult{}, h.err
}

func TestSavepoint(t *testing.T) {
	key := []byte("key")
	value := []byte("value")

	cases := map[string]struct {
		save      Savepoint
		handler   lockbox.Handler
		deliver   bool
		wantErr   *errors.Error
		wantWrite bool
	}{
		"check rolls back on error": {
			save:      NewSavepoint().OnCheck(),
			handler:   writingHandler{key: key, value: value, err: errors.ErrState},
			wantErr:   errors.ErrState,
			wantWrite: false,
		},
		"check commits on success": {
			save:      NewSavepoint().OnCheck(),
			handler:   writingHandler{key: key, value: value},
			wantWrite: true,
		},
		"deliver rolls back on error": {
			save:      NewSavepoint().OnDeliver(),
			handler:   writingHandler{key: key, value: value, err: errors.ErrState},
			deliver:   true,
			wantErr:   errors.ErrState,
			wantWrite: false,
		},
		"deliver commits on success": {
			save:      NewSavepoint().OnDeliver(),
			handler:   writingHandler{key: key, value: value},
			deliver:   true,
			wantWrite: true,
		},
		"inactive savepoint writes through even on error": {
			save:      NewSavepoint(),
			handler:   writingHandler{key: key, value: value, err: errors.ErrState},
			deliver:   true,
			wantErr:   errors.ErrState,
			wantWrite: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctx := context.Background()
			h := boxtest.Decorate(tc.handler, tc.save)

			var err error
			if tc.deliver {
				_, err = h.Deliver(ctx, db, &boxtest.Tx{})
			} else {
				_, err = h.Check(ctx, db, &boxtest.Tx{})
			}

			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("unexpected error: %+v", err)
				}
			} else {
				assert.Nil(t, err)
			}
			assert.Equal(t, tc.wantWrite, db.Has(key))
		})
	}
}
