package bank

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/store"
)

func TestGenesisWallets(t *testing.T) {
	alice := boxtest.NewCondition().Address()
	bob := boxtest.NewCondition().Address()

	genesis := fmt.Sprintf(`{
		"wallets": [
			{"address": %q, "balance": 123},
			{"address": %q, "balance": 7}
		]
	}`, alice, bob)

	var opts lockbox.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	ctrl := NewController()
	balance, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(123), balance)

	balance, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, uint64(7), balance)
}

func TestGenesisWithoutWallets(t *testing.T) {
	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(lockbox.Options{}, db))
}
