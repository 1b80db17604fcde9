package boxes

import (
	"encoding/binary"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/orm"
)

// BoxIDLength is the length of a box identifier in bytes.
const BoxIDLength = 32

var (
	stateSize    = lockbox.AddressLength
	boxSize      = lockbox.AddressLength + BoxIDLength + 8 + 8
	tokenBoxSize = boxSize + lockbox.AddressLength
)

// StateCondition is the derivation of the singleton authority record.
func StateCondition() lockbox.Condition {
	return lockbox.NewCondition("boxes", "state", []byte("singleton"))
}

// BoxCondition is the derivation of a currency box address. The sender and
// the free-form identifier pin the address, so a sender cannot create two
// boxes with the same id.
func BoxCondition(sender lockbox.Address, id []byte) lockbox.Condition {
	data := make([]byte, 0, lockbox.AddressLength+BoxIDLength)
	data = append(data, sender...)
	data = append(data, id...)
	return lockbox.NewCondition("boxes", "box", data)
}

// TokenBoxCondition is the derivation of a token box address.
func TokenBoxCondition(sender lockbox.Address, id []byte) lockbox.Condition {
	data := make([]byte, 0, lockbox.AddressLength+BoxIDLength)
	data = append(data, sender...)
	data = append(data, id...)
	return lockbox.NewCondition("boxes", "tokenbox", data)
}

// VaultCondition is the derivation of the vault authority for a token box.
// No key exists for this address. Handlers prove control by reproducing
// this exact condition.
func VaultCondition(tokenBoxAddr lockbox.Address) lockbox.Condition {
	return lockbox.NewCondition("boxes", "vault", tokenBoxAddr)
}

// ProgramState is the singleton record holding the administrative
// authority allowed to sweep expired boxes.
type ProgramState struct {
	Authority lockbox.Address
}

var _ orm.Model = (*ProgramState)(nil)

func (s *ProgramState) Validate() error {
	return errors.AppendField(nil, "Authority", s.Authority.Validate())
}

func (s *ProgramState) Marshal() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, stateSize)
	copy(raw, s.Authority)
	return raw, nil
}

func (s *ProgramState) Unmarshal(raw []byte) error {
	if len(raw) != stateSize {
		return errors.Wrapf(errors.ErrInput, "state record must be %d bytes", stateSize)
	}
	s.Authority = lockbox.Address(raw[:lockbox.AddressLength]).Clone()
	return nil
}

// Box is a single currency escrow record. A box is open when Deadline and
// Amount are set and closed when both are zero. A closed record is kept in
// the database so that a replayed release or sweep finds it and fails.
type Box struct {
	Sender   lockbox.Address
	ID       []byte
	Deadline lockbox.UnixTime
	Amount   uint64
}

var _ orm.Model = (*Box)(nil)

// IsClosed returns true if the funds were already released or swept.
func (b *Box) IsClosed() bool {
	return b.Deadline == 0
}

// Close zeroes the deadline and amount, marking the funds as gone.
func (b *Box) Close() {
	b.Deadline = 0
	b.Amount = 0
}

func (b *Box) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", b.Sender.Validate())
	if len(b.ID) != BoxIDLength {
		errs = errors.AppendField(errs, "ID",
			errors.Wrapf(errors.ErrInput, "must be %d bytes", BoxIDLength))
	}
	errs = errors.AppendField(errs, "Deadline", b.Deadline.Validate())
	if (b.Deadline == 0) != (b.Amount == 0) {
		errs = errors.Append(errs,
			errors.Wrap(errors.ErrState, "deadline and amount must be zeroed together"))
	}
	return errs
}

func (b *Box) Marshal() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, boxSize)
	n := copy(raw, b.Sender)
	n += copy(raw[n:], b.ID)
	binary.LittleEndian.PutUint64(raw[n:], uint64(b.Deadline))
	binary.LittleEndian.PutUint64(raw[n+8:], b.Amount)
	return raw, nil
}

func (b *Box) Unmarshal(raw []byte) error {
	if len(raw) != boxSize {
		return errors.Wrapf(errors.ErrInput, "box record must be %d bytes", boxSize)
	}
	b.Sender = lockbox.Address(raw[:lockbox.AddressLength]).Clone()
	b.ID = append([]byte(nil), raw[lockbox.AddressLength:lockbox.AddressLength+BoxIDLength]...)
	rest := raw[lockbox.AddressLength+BoxIDLength:]
	b.Deadline = lockbox.UnixTime(binary.LittleEndian.Uint64(rest))
	b.Amount = binary.LittleEndian.Uint64(rest[8:])
	return nil
}

// TokenBox is a single token escrow record. It extends Box with the mint
// of the token held by the vault.
type TokenBox struct {
	Sender   lockbox.Address
	ID       []byte
	Deadline lockbox.UnixTime
	Amount   uint64
	Mint     lockbox.Address
}

var _ orm.Model = (*TokenBox)(nil)

// IsClosed returns true if the tokens were already released or swept.
func (b *TokenBox) IsClosed() bool {
	return b.Deadline == 0
}

// Close zeroes the deadline and amount, marking the tokens as gone.
func (b *TokenBox) Close() {
	b.Deadline = 0
	b.Amount = 0
}

func (b *TokenBox) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", b.Sender.Validate())
	if len(b.ID) != BoxIDLength {
		errs = errors.AppendField(errs, "ID",
			errors.Wrapf(errors.ErrInput, "must be %d bytes", BoxIDLength))
	}
	errs = errors.AppendField(errs, "Deadline", b.Deadline.Validate())
	errs = errors.AppendField(errs, "Mint", b.Mint.Validate())
	if (b.Deadline == 0) != (b.Amount == 0) {
		errs = errors.Append(errs,
			errors.Wrap(errors.ErrState, "deadline and amount must be zeroed together"))
	}
	return errs
}

func (b *TokenBox) Marshal() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	raw := make([]byte, tokenBoxSize)
	n := copy(raw, b.Sender)
	n += copy(raw[n:], b.ID)
	binary.LittleEndian.PutUint64(raw[n:], uint64(b.Deadline))
	binary.LittleEndian.PutUint64(raw[n+8:], b.Amount)
	copy(raw[n+16:], b.Mint)
	return raw, nil
}

func (b *TokenBox) Unmarshal(raw []byte) error {
	if len(raw) != tokenBoxSize {
		return errors.Wrapf(errors.ErrInput, "token box record must be %d bytes", tokenBoxSize)
	}
	b.Sender = lockbox.Address(raw[:lockbox.AddressLength]).Clone()
	b.ID = append([]byte(nil), raw[lockbox.AddressLength:lockbox.AddressLength+BoxIDLength]...)
	rest := raw[lockbox.AddressLength+BoxIDLength:]
	b.Deadline = lockbox.UnixTime(binary.LittleEndian.Uint64(rest))
	b.Amount = binary.LittleEndian.Uint64(rest[8:])
	b.Mint = lockbox.Address(rest[16 : 16+lockbox.AddressLength]).Clone()
	return nil
}

// NewStateBucket returns a bucket for the singleton authority record.
func NewStateBucket() orm.ModelBucket {
	return orm.NewModelBucket("boxstate", &ProgramState{})
}

// NewBoxBucket returns a bucket for currency box records, keyed by the
// derived box address.
func NewBoxBucket() orm.ModelBucket {
	return orm.NewModelBucket("box", &Box{})
}

// NewTokenBoxBucket returns a bucket for token box records, keyed by the
// derived token box address.
func NewTokenBoxBucket() orm.ModelBucket {
	return orm.NewModelBucket("tokenbox", &TokenBox{})
}
