package bank

import (
	"math"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/orm"
)

// Controller provides the business logic for moving native token funds
// between addresses. Handlers should use it instead of touching the
// wallet bucket directly.
type Controller struct {
	bucket orm.ModelBucket
}

// NewController returns a controller operating on the standard wallet
// bucket.
func NewController() Controller {
	return Controller{bucket: NewWalletBucket()}
}

// Balance returns the current balance of the given address. An address
// without a wallet has a zero balance.
func (c Controller) Balance(db lockbox.KVStore, addr lockbox.Address) (uint64, error) {
	var w Wallet
	switch err := c.bucket.One(db, walletKey(addr), &w); {
	case err == nil:
		return w.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "load wallet")
	}
}

// MoveCoins transfers amount from src to dest. It fails if src does not
// hold at least amount.
func (c Controller) MoveCoins(db lockbox.KVStore, src, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}

	var sender Wallet
	if err := c.bucket.One(db, walletKey(src), &sender); err != nil {
		return errors.Wrap(err, "load sender")
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: have %d, need %d", sender.Balance, amount)
	}

	var recipient Wallet
	if err := c.bucket.One(db, walletKey(dest), &recipient); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "load recipient")
	}
	if recipient.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}

	sender.Balance -= amount
	recipient.Balance += amount

	if err := c.bucket.Put(db, walletKey(src), &sender); err != nil {
		return errors.Wrap(err, "store sender")
	}
	if err := c.bucket.Put(db, walletKey(dest), &recipient); err != nil {
		return errors.Wrap(err, "store recipient")
	}
	return nil
}

// IssueCoins creates amount out of thin air and credits it to dest. This
// is reserved for genesis and for tests.
func (c Controller) IssueCoins(db lockbox.KVStore, dest lockbox.Address, amount uint64) error {
	var recipient Wallet
	if err := c.bucket.One(db, walletKey(dest), &recipient); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "load recipient")
	}
	if recipient.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	recipient.Balance += amount
	return c.bucket.Put(db, walletKey(dest), &recipient)
}
