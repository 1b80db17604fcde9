package bank

import (
	"math"
	"testing"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/store"
)

func TestMoveCoins(t *testing.T) {
	alice := boxtest.NewCondition().Address()
	bob := boxtest.NewCondition().Address()
	carl := boxtest.NewCondition().Address()

	ctrl := NewController()

	cases := map[string]struct {
		src     lockbox.Address
		dest    lockbox.Address
		amount  uint64
		wantErr *errors.Error
	}{
		"success": {
			src:    alice,
			dest:   bob,
			amount: 60,
		},
		"insufficient funds": {
			src:     alice,
			dest:    bob,
			amount:  1000,
			wantErr: errors.ErrAmount,
		},
		"zero amount": {
			src:     alice,
			dest:    bob,
			amount:  0,
			wantErr: errors.ErrAmount,
		},
		"no source wallet": {
			src:     carl,
			dest:    bob,
			amount:  5,
			wantErr: errors.ErrNotFound,
		},
		"same source and destination": {
			src:     alice,
			dest:    alice,
			amount:  5,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			assert.Nil(t, ctrl.IssueCoins(db, alice, 100))

			err := ctrl.MoveCoins(db, tc.src, tc.dest, tc.amount)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("unexpected error: %+v", err)
				}
				return
			}
			assert.Nil(t, err)

			src, err := ctrl.Balance(db, tc.src)
			assert.Nil(t, err)
			dest, err := ctrl.Balance(db, tc.dest)
			assert.Nil(t, err)
			assert.Equal(t, uint64(100-tc.amount), src)
			assert.Equal(t, tc.amount, dest)
		})
	}
}

func TestMoveCoinsConservation(t *testing.T) {
	alice := boxtest.NewCondition().Address()
	bob := boxtest.NewCondition().Address()

	db := store.MemStore()
	ctrl := NewController()
	assert.Nil(t, ctrl.IssueCoins(db, alice, 70))
	assert.Nil(t, ctrl.IssueCoins(db, bob, 30))

	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, 25))
	assert.Nil(t, ctrl.MoveCoins(db, bob, alice, 55))

	a, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	b, err := ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(100), a+b)
}

func TestIssueCoinsOverflow(t *testing.T) {
	addr := boxtest.NewCondition().Address()

	db := store.MemStore()
	ctrl := NewController()
	assert.Nil(t, ctrl.IssueCoins(db, addr, math.MaxUint64))

	err := ctrl.IssueCoins(db, addr, 1)
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestBalanceWithoutWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	balance, err := ctrl.Balance(db, boxtest.NewCondition().Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), balance)
}
