package bank

import (
	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
)

// Initializer fulfils the Initializer interface to load initial wallets
// from the genesis options.
type Initializer struct{}

var _ lockbox.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial account balances from genesis and save
// them to the database.
func (Initializer) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	accounts := []struct {
		Address lockbox.Address `json:"address"`
		Balance uint64          `json:"balance"`
	}{}
	if err := opts.ReadOptions("wallets", &accounts); err != nil {
		return errors.Wrap(err, "cannot load wallets")
	}

	ctrl := NewController()
	for i, a := range accounts {
		if err := a.Address.Validate(); err != nil {
			return errors.Wrapf(err, "wallet #%d address", i)
		}
		if err := ctrl.IssueCoins(db, a.Address, a.Balance); err != nil {
			return errors.Wrapf(err, "wallet #%d", i)
		}
	}
	return nil
}
