package bank

import (
	"encoding/binary"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/orm"
)

// walletSize is the serialized size of a wallet record.
const walletSize = 8

// Wallet holds the native token balance of a single address. The address
// itself is the bucket key and is not part of the record.
type Wallet struct {
	// Balance is expressed in the smallest unit of the native token.
	Balance uint64
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Validate() error {
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	raw := make([]byte, walletSize)
	binary.LittleEndian.PutUint64(raw, w.Balance)
	return raw, nil
}

func (w *Wallet) Unmarshal(raw []byte) error {
	if len(raw) != walletSize {
		return errors.Wrapf(errors.ErrInput, "wallet record must be %d bytes", walletSize)
	}
	w.Balance = binary.LittleEndian.Uint64(raw)
	return nil
}

// NewWalletBucket returns a bucket for keeping track of wallets, keyed by
// the owner address.
func NewWalletBucket() orm.ModelBucket {
	return orm.NewModelBucket("wallet", &Wallet{})
}

// walletKey normalizes an address into a bucket key.
func walletKey(addr lockbox.Address) []byte {
	return []byte(addr)
}
