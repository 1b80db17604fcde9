package token

import (
	"encoding/binary"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/orm"
)

// accountSize is the serialized size of a token account record.
var accountSize = 2*lockbox.AddressLength + 8

// Account holds a balance of a single token kind (mint) controlled by an
// authority address.
type Account struct {
	// Authority is the address allowed to move funds out of this account.
	Authority lockbox.Address
	// Mint identifies the token kind held by this account.
	Mint lockbox.Address
	// Balance is expressed in the smallest unit of the token.
	Balance uint64
}

var _ orm.Model = (*Account)(nil)

func (a *Account) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", a.Authority.Validate())
	errs = errors.AppendField(errs, "Mint", a.Mint.Validate())
	return errs
}

func (a *Account) Marshal() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, accountSize)
	copy(raw, a.Authority)
	copy(raw[lockbox.AddressLength:], a.Mint)
	binary.LittleEndian.PutUint64(raw[2*lockbox.AddressLength:], a.Balance)
	return raw, nil
}

func (a *Account) Unmarshal(raw []byte) error {
	if len(raw) != accountSize {
		return errors.Wrapf(errors.ErrInput, "token account record must be %d bytes", accountSize)
	}
	a.Authority = lockbox.Address(raw[:lockbox.AddressLength]).Clone()
	a.Mint = lockbox.Address(raw[lockbox.AddressLength : 2*lockbox.AddressLength]).Clone()
	a.Balance = binary.LittleEndian.Uint64(raw[2*lockbox.AddressLength:])
	return nil
}

// NewAccountBucket returns a bucket for keeping track of token accounts,
// keyed by the account address.
func NewAccountBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenacct", &Account{})
}

// AccountCondition is the derivation of the canonical account for an
// (authority, mint) pair. There is exactly one such account and anyone can
// compute its address.
func AccountCondition(authority, mint lockbox.Address) lockbox.Condition {
	data := make([]byte, 0, 2*lockbox.AddressLength)
	data = append(data, authority...)
	data = append(data, mint...)
	return lockbox.NewCondition("token", "acct", data)
}

// AccountAddress returns the address of the canonical account for the
// (authority, mint) pair.
func AccountAddress(authority, mint lockbox.Address) lockbox.Address {
	return AccountCondition(authority, mint).Address()
}
