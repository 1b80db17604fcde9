package token

import (
	"math"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/orm"
	"github.com/lockbox-io/lockbox/x"
	"github.com/lockbox-io/lockbox/x/bank"
)

// AccountRent is the storage deposit in native token units that every
// token account holds while it exists. It is debited from the payer on
// account creation and refunded when the account is closed.
const AccountRent uint64 = 2039280

// TransferAuthority proves the right to move funds out of an account. The
// account stores only an authority address; the proof is either a
// transaction signature for that address or the ability to reproduce the
// condition the address was derived from.
type TransferAuthority interface {
	// Allows returns true if this proof covers the given authority
	// address.
	Allows(ctx lockbox.Context, authority lockbox.Address) bool
}

// SignerAuthority authorizes transfers out of accounts whose authority
// signed the current transaction.
type SignerAuthority struct {
	auth x.Authenticator
}

var _ TransferAuthority = SignerAuthority{}

// Signer wraps an authenticator into a transfer authority.
func Signer(auth x.Authenticator) SignerAuthority {
	return SignerAuthority{auth: auth}
}

func (s SignerAuthority) Allows(ctx lockbox.Context, authority lockbox.Address) bool {
	return s.auth.HasAddress(ctx, authority)
}

// ConditionAuthority authorizes transfers out of accounts whose authority
// address is derived from the carried condition. Reproducing the exact
// seeds is the proof, no key is involved.
type ConditionAuthority struct {
	cond lockbox.Condition
}

var _ TransferAuthority = ConditionAuthority{}

// Derived wraps a condition into a transfer authority.
func Derived(cond lockbox.Condition) ConditionAuthority {
	return ConditionAuthority{cond: cond}
}

func (c ConditionAuthority) Allows(_ lockbox.Context, authority lockbox.Address) bool {
	return c.cond.Address().Equals(authority)
}

// Controller provides the business logic for token accounts. The storage
// deposit flows through the bank controller so that native funds are
// conserved.
type Controller struct {
	accounts orm.ModelBucket
	cash     bank.Controller
}

// NewController returns a controller operating on the standard account
// bucket and wallet bucket.
func NewController() Controller {
	return Controller{
		accounts: NewAccountBucket(),
		cash:     bank.NewController(),
	}
}

// GetAccount loads the token account stored under the given address.
func (c Controller) GetAccount(db lockbox.KVStore, addr lockbox.Address) (*Account, error) {
	var acct Account
	if err := c.accounts.One(db, addr, &acct); err != nil {
		return nil, errors.Wrap(err, "load token account")
	}
	return &acct, nil
}

// EnsureAccount returns the address of the canonical account for the
// (authority, mint) pair, creating the account if it does not exist yet.
// Creation debits the storage deposit from the payer.
func (c Controller) EnsureAccount(db lockbox.KVStore, payer, authority, mint lockbox.Address) (lockbox.Address, error) {
	addr := AccountAddress(authority, mint)

	var acct Account
	switch err := c.accounts.One(db, addr, &acct); {
	case err == nil:
		if !acct.Mint.Equals(mint) {
			return nil, errors.Wrap(errors.ErrState, "account exists with another mint")
		}
		return addr, nil
	case errors.ErrNotFound.Is(err):
		// Continue with creation below.
	default:
		return nil, errors.Wrap(err, "load token account")
	}

	if err := c.cash.MoveCoins(db, payer, addr, AccountRent); err != nil {
		return nil, errors.Wrap(err, "storage deposit")
	}
	acct = Account{Authority: authority.Clone(), Mint: mint.Clone()}
	if err := c.accounts.Put(db, addr, &acct); err != nil {
		return nil, errors.Wrap(err, "store token account")
	}
	return addr, nil
}

// IssueTokens mints amount into an existing account. This is reserved for
// genesis and for tests. Regular operations only move existing balances.
func (c Controller) IssueTokens(db lockbox.KVStore, addr lockbox.Address, amount uint64) error {
	var acct Account
	if err := c.accounts.One(db, addr, &acct); err != nil {
		return errors.Wrap(err, "load token account")
	}
	if acct.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "account balance")
	}
	acct.Balance += amount
	return c.accounts.Put(db, addr, &acct)
}

// Transfer moves amount from the src account to the dest account. The
// given proof must cover the authority stored on src and both accounts
// must hold the same mint.
func (c Controller) Transfer(ctx lockbox.Context, db lockbox.KVStore, proof TransferAuthority, src, dest lockbox.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "source and destination are the same")
	}

	var from Account
	if err := c.accounts.One(db, src, &from); err != nil {
		return errors.Wrap(err, "load source account")
	}
	if !proof.Allows(ctx, from.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "source authority")
	}
	if from.Balance < amount {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds: have %d, need %d", from.Balance, amount)
	}

	var to Account
	if err := c.accounts.One(db, dest, &to); err != nil {
		return errors.Wrap(err, "load destination account")
	}
	if !from.Mint.Equals(to.Mint) {
		return errors.Wrap(errors.ErrType, "mint mismatch")
	}
	if to.Balance > math.MaxUint64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	from.Balance -= amount
	to.Balance += amount

	if err := c.accounts.Put(db, src, &from); err != nil {
		return errors.Wrap(err, "store source account")
	}
	if err := c.accounts.Put(db, dest, &to); err != nil {
		return errors.Wrap(err, "store destination account")
	}
	return nil
}

// CloseAccount removes an empty token account and refunds the storage
// deposit to rentDest. Closing an account that still holds tokens fails.
func (c Controller) CloseAccount(ctx lockbox.Context, db lockbox.KVStore, proof TransferAuthority, addr, rentDest lockbox.Address) error {
	var acct Account
	if err := c.accounts.One(db, addr, &acct); err != nil {
		return errors.Wrap(err, "load token account")
	}
	if !proof.Allows(ctx, acct.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "account authority")
	}
	if acct.Balance != 0 {
		return errors.Wrap(errors.ErrState, "account still holds tokens")
	}

	if err := c.cash.MoveCoins(db, addr, rentDest, AccountRent); err != nil {
		return errors.Wrap(err, "deposit refund")
	}
	if err := c.accounts.Delete(db, addr); err != nil {
		return errors.Wrap(err, "delete token account")
	}
	return nil
}
