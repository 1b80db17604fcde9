package boxes

import (
	"encoding/binary"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
)

// Lifetime limits of a box, expressed in days.
const (
	MinDeadlineDays = 1
	MaxDeadlineDays = 365
)

var (
	_ lockbox.Msg = (*InitializeMsg)(nil)
	_ lockbox.Msg = (*CreateBoxMsg)(nil)
	_ lockbox.Msg = (*OpenBoxMsg)(nil)
	_ lockbox.Msg = (*SweepBoxMsg)(nil)
	_ lockbox.Msg = (*CreateTokenBoxMsg)(nil)
	_ lockbox.Msg = (*OpenTokenBoxMsg)(nil)
	_ lockbox.Msg = (*SweepTokenBoxMsg)(nil)
)

// InitializeMsg stores the administrative authority in the singleton
// state record. It can succeed only once.
type InitializeMsg struct {
	// Authority is the address allowed to sweep expired boxes.
	Authority lockbox.Address
	// StateAddress must match the derived state singleton address.
	StateAddress lockbox.Address
}

func (InitializeMsg) Path() string {
	return "boxes/initialize"
}

func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "StateAddress", m.StateAddress.Validate())
	return errs
}

func (m *InitializeMsg) Marshal() ([]byte, error) {
	e := newEncoder(2 * lockbox.AddressLength)
	e.address(m.Authority)
	e.address(m.StateAddress)
	return e.bytes()
}

func (m *InitializeMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 2*lockbox.AddressLength)
	m.Authority = d.address()
	m.StateAddress = d.address()
	return d.err()
}

// CreateBoxMsg locks Amount currency units under a derived box address
// until the deadline.
type CreateBoxMsg struct {
	// Sender funds the box and must sign.
	Sender lockbox.Address
	// BoxAddress must match the derivation from Sender and ID.
	BoxAddress lockbox.Address
	// ID is a free-form 32 byte identifier chosen by the sender.
	ID []byte
	// DeadlineDays is the box lifetime, 1 to 365 days from now.
	DeadlineDays uint16
	// Amount is the number of currency units to lock.
	Amount uint64
}

func (CreateBoxMsg) Path() string {
	return "boxes/create"
}

func (m *CreateBoxMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	errs = errors.AppendField(errs, "BoxAddress", m.BoxAddress.Validate())
	if len(m.ID) != BoxIDLength {
		errs = errors.AppendField(errs, "ID",
			errors.Wrapf(errors.ErrInput, "must be %d bytes", BoxIDLength))
	}
	if errs != nil {
		return errs
	}
	if m.DeadlineDays < MinDeadlineDays || m.DeadlineDays > MaxDeadlineDays {
		return errors.Wrapf(ErrBadDeadline, "must be between %d and %d days", MinDeadlineDays, MaxDeadlineDays)
	}
	if m.Amount == 0 {
		return errors.Wrap(ErrNoFunds, "zero amount")
	}
	return nil
}

func (m *CreateBoxMsg) Marshal() ([]byte, error) {
	e := newEncoder(2*lockbox.AddressLength + BoxIDLength + 10)
	e.address(m.Sender)
	e.address(m.BoxAddress)
	e.id(m.ID)
	e.u16(m.DeadlineDays)
	e.u64(m.Amount)
	return e.bytes()
}

func (m *CreateBoxMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 2*lockbox.AddressLength+BoxIDLength+10)
	m.Sender = d.address()
	m.BoxAddress = d.address()
	m.ID = d.id()
	m.DeadlineDays = d.u16()
	m.Amount = d.u64()
	return d.err()
}

// OpenBoxMsg releases a box before its deadline, moving the locked funds
// to the named recipient. No signature is required. Knowing an open box
// address is the only admission gate.
type OpenBoxMsg struct {
	// BoxAddress locates the box record.
	BoxAddress lockbox.Address
	// Recipient receives the locked funds.
	Recipient lockbox.Address
}

func (OpenBoxMsg) Path() string {
	return "boxes/open"
}

func (m *OpenBoxMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "BoxAddress", m.BoxAddress.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	return errs
}

func (m *OpenBoxMsg) Marshal() ([]byte, error) {
	e := newEncoder(2 * lockbox.AddressLength)
	e.address(m.BoxAddress)
	e.address(m.Recipient)
	return e.bytes()
}

func (m *OpenBoxMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 2*lockbox.AddressLength)
	m.BoxAddress = d.address()
	m.Recipient = d.address()
	return d.err()
}

// SweepBoxMsg reclaims an expired box, moving the locked funds to the
// stored authority. Only the authority may sweep.
type SweepBoxMsg struct {
	// StateAddress must match the derived state singleton address.
	StateAddress lockbox.Address
	// BoxAddress locates the box record.
	BoxAddress lockbox.Address
	// Authority must match the stored authority and sign.
	Authority lockbox.Address
}

func (SweepBoxMsg) Path() string {
	return "boxes/sweep"
}

func (m *SweepBoxMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "StateAddress", m.StateAddress.Validate())
	errs = errors.AppendField(errs, "BoxAddress", m.BoxAddress.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	return errs
}

func (m *SweepBoxMsg) Marshal() ([]byte, error) {
	e := newEncoder(3 * lockbox.AddressLength)
	e.address(m.StateAddress)
	e.address(m.BoxAddress)
	e.address(m.Authority)
	return e.bytes()
}

func (m *SweepBoxMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 3*lockbox.AddressLength)
	m.StateAddress = d.address()
	m.BoxAddress = d.address()
	m.Authority = d.address()
	return d.err()
}

// CreateTokenBoxMsg locks Amount token units of Mint in a vault account
// until the deadline.
type CreateTokenBoxMsg struct {
	// Sender funds the box and must sign.
	Sender lockbox.Address
	// SenderTokenAccount is debited by Amount.
	SenderTokenAccount lockbox.Address
	// TokenBoxAddress must match the derivation from Sender and ID.
	TokenBoxAddress lockbox.Address
	// VaultAccount must match the canonical token account of the vault
	// authority for Mint.
	VaultAccount lockbox.Address
	// Mint identifies the token kind.
	Mint lockbox.Address
	// VaultAuthority must match the derivation from TokenBoxAddress.
	VaultAuthority lockbox.Address
	// ID is a free-form 32 byte identifier chosen by the sender.
	ID []byte
	// DeadlineDays is the box lifetime, 1 to 365 days from now.
	DeadlineDays uint16
	// Amount is the number of token units to lock.
	Amount uint64
}

func (CreateTokenBoxMsg) Path() string {
	return "boxes/create_token"
}

func (m *CreateTokenBoxMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Sender", m.Sender.Validate())
	errs = errors.AppendField(errs, "SenderTokenAccount", m.SenderTokenAccount.Validate())
	errs = errors.AppendField(errs, "TokenBoxAddress", m.TokenBoxAddress.Validate())
	errs = errors.AppendField(errs, "VaultAccount", m.VaultAccount.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	errs = errors.AppendField(errs, "VaultAuthority", m.VaultAuthority.Validate())
	if len(m.ID) != BoxIDLength {
		errs = errors.AppendField(errs, "ID",
			errors.Wrapf(errors.ErrInput, "must be %d bytes", BoxIDLength))
	}
	if errs != nil {
		return errs
	}
	if m.DeadlineDays < MinDeadlineDays || m.DeadlineDays > MaxDeadlineDays {
		return errors.Wrapf(ErrBadDeadline, "must be between %d and %d days", MinDeadlineDays, MaxDeadlineDays)
	}
	if m.Amount == 0 {
		return errors.Wrap(ErrNoFunds, "zero amount")
	}
	return nil
}

func (m *CreateTokenBoxMsg) Marshal() ([]byte, error) {
	e := newEncoder(6*lockbox.AddressLength + BoxIDLength + 10)
	e.address(m.Sender)
	e.address(m.SenderTokenAccount)
	e.address(m.TokenBoxAddress)
	e.address(m.VaultAccount)
	e.address(m.Mint)
	e.address(m.VaultAuthority)
	e.id(m.ID)
	e.u16(m.DeadlineDays)
	e.u64(m.Amount)
	return e.bytes()
}

func (m *CreateTokenBoxMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 6*lockbox.AddressLength+BoxIDLength+10)
	m.Sender = d.address()
	m.SenderTokenAccount = d.address()
	m.TokenBoxAddress = d.address()
	m.VaultAccount = d.address()
	m.Mint = d.address()
	m.VaultAuthority = d.address()
	m.ID = d.id()
	m.DeadlineDays = d.u16()
	m.Amount = d.u64()
	return d.err()
}

// OpenTokenBoxMsg releases a token box before its deadline. The vault is
// emptied into the recipient token account and closed, refunding its
// storage deposit. As with OpenBoxMsg, no signature is required.
type OpenTokenBoxMsg struct {
	// TokenBoxAddress locates the token box record.
	TokenBoxAddress lockbox.Address
	// VaultAccount is the token account holding the locked tokens.
	VaultAccount lockbox.Address
	// RecipientTokenAccount receives the locked tokens.
	RecipientTokenAccount lockbox.Address
	// RentRefund receives the vault's storage deposit.
	RentRefund lockbox.Address
	// VaultAuthority must match the derivation from TokenBoxAddress.
	VaultAuthority lockbox.Address
}

func (OpenTokenBoxMsg) Path() string {
	return "boxes/open_token"
}

func (m *OpenTokenBoxMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TokenBoxAddress", m.TokenBoxAddress.Validate())
	errs = errors.AppendField(errs, "VaultAccount", m.VaultAccount.Validate())
	errs = errors.AppendField(errs, "RecipientTokenAccount", m.RecipientTokenAccount.Validate())
	errs = errors.AppendField(errs, "RentRefund", m.RentRefund.Validate())
	errs = errors.AppendField(errs, "VaultAuthority", m.VaultAuthority.Validate())
	return errs
}

func (m *OpenTokenBoxMsg) Marshal() ([]byte, error) {
	e := newEncoder(5 * lockbox.AddressLength)
	e.address(m.TokenBoxAddress)
	e.address(m.VaultAccount)
	e.address(m.RecipientTokenAccount)
	e.address(m.RentRefund)
	e.address(m.VaultAuthority)
	return e.bytes()
}

func (m *OpenTokenBoxMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 5*lockbox.AddressLength)
	m.TokenBoxAddress = d.address()
	m.VaultAccount = d.address()
	m.RecipientTokenAccount = d.address()
	m.RentRefund = d.address()
	m.VaultAuthority = d.address()
	return d.err()
}

// SweepTokenBoxMsg reclaims an expired token box. The vault is emptied
// into the authority token account and closed, refunding its storage
// deposit to the authority.
type SweepTokenBoxMsg struct {
	// StateAddress must match the derived state singleton address.
	StateAddress lockbox.Address
	// TokenBoxAddress locates the token box record.
	TokenBoxAddress lockbox.Address
	// VaultAccount is the token account holding the locked tokens.
	VaultAccount lockbox.Address
	// AuthorityTokenAccount receives the locked tokens.
	AuthorityTokenAccount lockbox.Address
	// Authority must match the stored authority and sign.
	Authority lockbox.Address
	// VaultAuthority must match the derivation from TokenBoxAddress.
	VaultAuthority lockbox.Address
}

func (SweepTokenBoxMsg) Path() string {
	return "boxes/sweep_token"
}

func (m *SweepTokenBoxMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "StateAddress", m.StateAddress.Validate())
	errs = errors.AppendField(errs, "TokenBoxAddress", m.TokenBoxAddress.Validate())
	errs = errors.AppendField(errs, "VaultAccount", m.VaultAccount.Validate())
	errs = errors.AppendField(errs, "AuthorityTokenAccount", m.AuthorityTokenAccount.Validate())
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "VaultAuthority", m.VaultAuthority.Validate())
	return errs
}

func (m *SweepTokenBoxMsg) Marshal() ([]byte, error) {
	e := newEncoder(6 * lockbox.AddressLength)
	e.address(m.StateAddress)
	e.address(m.TokenBoxAddress)
	e.address(m.VaultAccount)
	e.address(m.AuthorityTokenAccount)
	e.address(m.Authority)
	e.address(m.VaultAuthority)
	return e.bytes()
}

func (m *SweepTokenBoxMsg) Unmarshal(raw []byte) error {
	d := newDecoder(raw, 6*lockbox.AddressLength)
	m.StateAddress = d.address()
	m.TokenBoxAddress = d.address()
	m.VaultAccount = d.address()
	m.AuthorityTokenAccount = d.address()
	m.Authority = d.address()
	m.VaultAuthority = d.address()
	return d.err()
}

// encoder writes the fixed little-endian payload layout.
type encoder struct {
	buf []byte
}

func newEncoder(size int) *encoder {
	return &encoder{buf: make([]byte, 0, size)}
}

func (e *encoder) address(a lockbox.Address) {
	e.buf = append(e.buf, a...)
}

func (e *encoder) id(id []byte) {
	e.buf = append(e.buf, id...)
}

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *encoder) bytes() ([]byte, error) {
	if len(e.buf) != cap(e.buf) {
		return nil, errors.Wrapf(errors.ErrInput, "payload must be %d bytes, got %d", cap(e.buf), len(e.buf))
	}
	return e.buf, nil
}

// decoder reads the fixed little-endian payload layout. All read errors
// are collected and returned by the final err call.
type decoder struct {
	raw  []byte
	fail error
}

func newDecoder(raw []byte, size int) *decoder {
	d := &decoder{raw: raw}
	if len(raw) != size {
		d.fail = errors.Wrapf(errors.ErrInput, "payload must be %d bytes, got %d", size, len(raw))
		d.raw = nil
	}
	return d
}

func (d *decoder) read(n int) []byte {
	if d.fail != nil || len(d.raw) < n {
		return nil
	}
	chunk := d.raw[:n]
	d.raw = d.raw[n:]
	return chunk
}

func (d *decoder) address() lockbox.Address {
	return lockbox.Address(d.read(lockbox.AddressLength)).Clone()
}

func (d *decoder) id() []byte {
	chunk := d.read(BoxIDLength)
	if chunk == nil {
		return nil
	}
	return append([]byte(nil), chunk...)
}

func (d *decoder) u16() uint16 {
	chunk := d.read(2)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(chunk)
}

func (d *decoder) u64() uint64 {
	chunk := d.read(8)
	if chunk == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(chunk)
}

func (d *decoder) err() error {
	return d.fail
}
