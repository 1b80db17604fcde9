package boxes

import (
	"time"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/orm"
	"github.com/lockbox-io/lockbox/x"
	"github.com/lockbox-io/lockbox/x/token"
)

const (
	// pay box creation cost up-front
	createBoxCost int64 = 300
	openBoxCost   int64 = 0
	sweepBoxCost  int64 = 0
)

// CashController is the subset of the bank controller the handlers need.
type CashController interface {
	MoveCoins(db lockbox.KVStore, src, dest lockbox.Address, amount uint64) error
}

// TokenController is the subset of the token controller the handlers need.
type TokenController interface {
	EnsureAccount(db lockbox.KVStore, payer, authority, mint lockbox.Address) (lockbox.Address, error)
	Transfer(ctx lockbox.Context, db lockbox.KVStore, proof token.TransferAuthority, src, dest lockbox.Address, amount uint64) error
	CloseAccount(ctx lockbox.Context, db lockbox.KVStore, proof token.TransferAuthority, addr, rentDest lockbox.Address) error
}

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r lockbox.Registry, auth x.Authenticator, cash CashController, tokens TokenController) {
	states := NewStateBucket()
	boxs := NewBoxBucket()
	tokenBoxs := NewTokenBoxBucket()

	r.Handle(InitializeMsg{}.Path(), InitializeHandler{auth: auth, states: states})
	r.Handle(CreateBoxMsg{}.Path(), CreateBoxHandler{auth: auth, boxs: boxs, cash: cash})
	r.Handle(OpenBoxMsg{}.Path(), OpenBoxHandler{boxs: boxs, cash: cash})
	r.Handle(SweepBoxMsg{}.Path(), SweepBoxHandler{auth: auth, states: states, boxs: boxs, cash: cash})
	r.Handle(CreateTokenBoxMsg{}.Path(), CreateTokenBoxHandler{auth: auth, boxs: tokenBoxs, tokens: tokens})
	r.Handle(OpenTokenBoxMsg{}.Path(), OpenTokenBoxHandler{boxs: tokenBoxs, tokens: tokens})
	r.Handle(SweepTokenBoxMsg{}.Path(), SweepTokenBoxHandler{auth: auth, states: states, boxs: tokenBoxs, tokens: tokens})
}

// deadlineFromDays computes the absolute deadline from the block time.
// The addition saturates instead of wrapping around.
func deadlineFromDays(ctx lockbox.Context, days uint16) (lockbox.UnixTime, error) {
	now, ok := lockbox.BlockTime(ctx)
	if !ok {
		return 0, errors.Wrap(errors.ErrState, "block time not present")
	}
	return lockbox.AsUnixTime(now).Add(time.Duration(days) * 24 * time.Hour), nil
}

// loadState returns the singleton authority record.
func loadState(db lockbox.KVStore, states orm.ModelBucket) (*ProgramState, error) {
	var state ProgramState
	switch err := states.One(db, StateCondition().Address(), &state); {
	case err == nil:
		return &state, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrState, "not initialized")
	default:
		return nil, errors.Wrap(err, "load state")
	}
}

// InitializeHandler stores the administrative authority. It succeeds at
// most once, a second initialization cannot overwrite the authority.
type InitializeHandler struct {
	auth   x.Authenticator
	states orm.ModelBucket
}

var _ lockbox.Handler = InitializeHandler{}

func (h InitializeHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{}, nil
}

func (h InitializeHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	state := ProgramState{Authority: msg.Authority.Clone()}
	if err := h.states.Put(db, StateCondition().Address(), &state); err != nil {
		return nil, errors.Wrap(err, "store state")
	}
	return &lockbox.DeliverResult{Data: msg.StateAddress}, nil
}

func (h InitializeHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !msg.StateAddress.Equals(StateCondition().Address()) {
		return nil, errors.Wrap(ErrInvalidAccount, "state address")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority did not sign")
	}
	if h.states.Has(db, StateCondition().Address()) == nil {
		return nil, errors.Wrap(errors.ErrState, "already initialized")
	}
	return &msg, nil
}

// CreateBoxHandler locks currency funds under a derived box address.
type CreateBoxHandler struct {
	auth x.Authenticator
	boxs orm.ModelBucket
	cash CashController
}

var _ lockbox.Handler = CreateBoxHandler{}

func (h CreateBoxHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: createBoxCost}, nil
}

func (h CreateBoxHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	deadline, err := deadlineFromDays(ctx, msg.DeadlineDays)
	if err != nil {
		return nil, err
	}
	box := Box{
		Sender:   msg.Sender.Clone(),
		ID:       msg.ID,
		Deadline: deadline,
		Amount:   msg.Amount,
	}
	if err := h.boxs.Put(db, msg.BoxAddress, &box); err != nil {
		return nil, errors.Wrap(err, "store box")
	}
	if err := h.cash.MoveCoins(db, msg.Sender, msg.BoxAddress, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "fund box")
	}
	return &lockbox.DeliverResult{Data: msg.BoxAddress}, nil
}

func (h CreateBoxHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*CreateBoxMsg, error) {
	var msg CreateBoxMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Sender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sender did not sign")
	}
	if !msg.BoxAddress.Equals(BoxCondition(msg.Sender, msg.ID).Address()) {
		return nil, errors.Wrap(ErrInvalidAccount, "box address")
	}
	if h.boxs.Has(db, msg.BoxAddress) == nil {
		return nil, errors.Wrap(errors.ErrDuplicate, "box exists")
	}
	return &msg, nil
}

// OpenBoxHandler releases a box before its deadline. There is no signer
// requirement. Anyone who knows an open box address may trigger the
// release to a recipient of their choosing. Knowledge of the box address
// and timing are the only admission gates.
type OpenBoxHandler struct {
	boxs orm.ModelBucket
	cash CashController
}

var _ lockbox.Handler = OpenBoxHandler{}

func (h OpenBoxHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: openBoxCost}, nil
}

func (h OpenBoxHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, box, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.cash.MoveCoins(db, msg.BoxAddress, msg.Recipient, box.Amount); err != nil {
		return nil, errors.Wrap(err, "release funds")
	}
	box.Close()
	if err := h.boxs.Put(db, msg.BoxAddress, box); err != nil {
		return nil, errors.Wrap(err, "store box")
	}
	return &lockbox.DeliverResult{Data: msg.BoxAddress}, nil
}

func (h OpenBoxHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*OpenBoxMsg, *Box, error) {
	var msg OpenBoxMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var box Box
	if err := h.boxs.One(db, msg.BoxAddress, &box); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(ErrUnknownBox, "no box at address")
		}
		return nil, nil, errors.Wrap(err, "load box")
	}
	if box.IsClosed() {
		return nil, nil, errors.Wrap(ErrUnknownBox, "already closed")
	}
	// The deadline boundary belongs to the sweep, not the release.
	if lockbox.IsExpired(ctx, box.Deadline) {
		return nil, nil, errors.Wrap(ErrTooLate, "deadline passed")
	}
	return &msg, &box, nil
}

// SweepBoxHandler reclaims an expired box for the stored authority.
type SweepBoxHandler struct {
	auth   x.Authenticator
	states orm.ModelBucket
	boxs   orm.ModelBucket
	cash   CashController
}

var _ lockbox.Handler = SweepBoxHandler{}

func (h SweepBoxHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: sweepBoxCost}, nil
}

func (h SweepBoxHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, box, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.cash.MoveCoins(db, msg.BoxAddress, msg.Authority, box.Amount); err != nil {
		return nil, errors.Wrap(err, "sweep funds")
	}
	box.Close()
	if err := h.boxs.Put(db, msg.BoxAddress, box); err != nil {
		return nil, errors.Wrap(err, "store box")
	}
	return &lockbox.DeliverResult{Data: msg.BoxAddress}, nil
}

func (h SweepBoxHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*SweepBoxMsg, *Box, error) {
	var msg SweepBoxMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := authorizeSweep(ctx, db, h.auth, h.states, msg.StateAddress, msg.Authority); err != nil {
		return nil, nil, err
	}

	var box Box
	if err := h.boxs.One(db, msg.BoxAddress, &box); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(ErrUnknownBox, "no box at address")
		}
		return nil, nil, errors.Wrap(err, "load box")
	}
	if box.IsClosed() {
		return nil, nil, errors.Wrap(ErrUnknownBox, "already closed")
	}
	if !lockbox.IsExpired(ctx, box.Deadline) {
		return nil, nil, errors.Wrap(ErrNotExpired, "deadline not reached")
	}
	return &msg, &box, nil
}

// authorizeSweep verifies the state address derivation, that the given
// authority is the stored one and that it signed the transaction.
func authorizeSweep(ctx lockbox.Context, db lockbox.KVStore, auth x.Authenticator, states orm.ModelBucket, stateAddr, authority lockbox.Address) error {
	if !stateAddr.Equals(StateCondition().Address()) {
		return errors.Wrap(ErrInvalidAccount, "state address")
	}
	state, err := loadState(db, states)
	if err != nil {
		return err
	}
	if !state.Authority.Equals(authority) {
		return errors.Wrap(errors.ErrUnauthorized, "not the stored authority")
	}
	if !auth.HasAddress(ctx, state.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "authority did not sign")
	}
	return nil
}

// CreateTokenBoxHandler locks tokens in a vault account controlled by a
// derived authority.
type CreateTokenBoxHandler struct {
	auth   x.Authenticator
	boxs   orm.ModelBucket
	tokens TokenController
}

var _ lockbox.Handler = CreateTokenBoxHandler{}

func (h CreateTokenBoxHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: createBoxCost}, nil
}

func (h CreateTokenBoxHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	deadline, err := deadlineFromDays(ctx, msg.DeadlineDays)
	if err != nil {
		return nil, err
	}
	box := TokenBox{
		Sender:   msg.Sender.Clone(),
		ID:       msg.ID,
		Deadline: deadline,
		Amount:   msg.Amount,
		Mint:     msg.Mint.Clone(),
	}
	if err := h.boxs.Put(db, msg.TokenBoxAddress, &box); err != nil {
		return nil, errors.Wrap(err, "store token box")
	}

	// The vault is created lazily, its storage deposit paid by the
	// sender. The returned address equals msg.VaultAccount, both are
	// the canonical account of (vault authority, mint).
	vault, err := h.tokens.EnsureAccount(db, msg.Sender, msg.VaultAuthority, msg.Mint)
	if err != nil {
		return nil, errors.Wrap(err, "ensure vault")
	}
	if err := h.tokens.Transfer(ctx, db, token.Signer(h.auth), msg.SenderTokenAccount, vault, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "fund vault")
	}
	return &lockbox.DeliverResult{Data: msg.TokenBoxAddress}, nil
}

func (h CreateTokenBoxHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*CreateTokenBoxMsg, error) {
	var msg CreateTokenBoxMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Sender) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sender did not sign")
	}
	if !msg.TokenBoxAddress.Equals(TokenBoxCondition(msg.Sender, msg.ID).Address()) {
		return nil, errors.Wrap(ErrInvalidAccount, "token box address")
	}
	vaultAuthority := VaultCondition(msg.TokenBoxAddress).Address()
	if !msg.VaultAuthority.Equals(vaultAuthority) {
		return nil, errors.Wrap(ErrInvalidAccount, "vault authority")
	}
	if !msg.VaultAccount.Equals(token.AccountAddress(vaultAuthority, msg.Mint)) {
		return nil, errors.Wrap(ErrInvalidAccount, "vault account")
	}
	if h.boxs.Has(db, msg.TokenBoxAddress) == nil {
		return nil, errors.Wrap(errors.ErrDuplicate, "token box exists")
	}
	return &msg, nil
}

// OpenTokenBoxHandler releases a token box before its deadline. The vault
// is emptied into the recipient account and closed. As with
// OpenBoxHandler there is no signer requirement.
type OpenTokenBoxHandler struct {
	boxs   orm.ModelBucket
	tokens TokenController
}

var _ lockbox.Handler = OpenTokenBoxHandler{}

func (h OpenTokenBoxHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: openBoxCost}, nil
}

func (h OpenTokenBoxHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, box, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// Transfer must come before the close. Closing a non-empty vault
	// fails, there is no path that destroys tokens.
	proof := token.Derived(VaultCondition(msg.TokenBoxAddress))
	if err := h.tokens.Transfer(ctx, db, proof, msg.VaultAccount, msg.RecipientTokenAccount, box.Amount); err != nil {
		return nil, errors.Wrap(err, "release tokens")
	}
	if err := h.tokens.CloseAccount(ctx, db, proof, msg.VaultAccount, msg.RentRefund); err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	box.Close()
	if err := h.boxs.Put(db, msg.TokenBoxAddress, box); err != nil {
		return nil, errors.Wrap(err, "store token box")
	}
	return &lockbox.DeliverResult{Data: msg.TokenBoxAddress}, nil
}

func (h OpenTokenBoxHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*OpenTokenBoxMsg, *TokenBox, error) {
	var msg OpenTokenBoxMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	var box TokenBox
	if err := h.boxs.One(db, msg.TokenBoxAddress, &box); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(ErrUnknownBox, "no box at address")
		}
		return nil, nil, errors.Wrap(err, "load token box")
	}
	if box.IsClosed() {
		return nil, nil, errors.Wrap(ErrUnknownBox, "already closed")
	}
	if lockbox.IsExpired(ctx, box.Deadline) {
		return nil, nil, errors.Wrap(ErrTooLate, "deadline passed")
	}

	vaultAuthority := VaultCondition(msg.TokenBoxAddress).Address()
	if !msg.VaultAuthority.Equals(vaultAuthority) {
		return nil, nil, errors.Wrap(ErrInvalidAccount, "vault authority")
	}
	if !msg.VaultAccount.Equals(token.AccountAddress(vaultAuthority, box.Mint)) {
		return nil, nil, errors.Wrap(ErrInvalidAccount, "vault account")
	}
	return &msg, &box, nil
}

// SweepTokenBoxHandler reclaims an expired token box for the stored
// authority.
type SweepTokenBoxHandler struct {
	auth   x.Authenticator
	states orm.ModelBucket
	boxs   orm.ModelBucket
	tokens TokenController
}

var _ lockbox.Handler = SweepTokenBoxHandler{}

func (h SweepTokenBoxHandler) Check(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &lockbox.CheckResult{GasAllocated: sweepBoxCost}, nil
}

func (h SweepTokenBoxHandler) Deliver(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*lockbox.DeliverResult, error) {
	msg, box, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	proof := token.Derived(VaultCondition(msg.TokenBoxAddress))
	if err := h.tokens.Transfer(ctx, db, proof, msg.VaultAccount, msg.AuthorityTokenAccount, box.Amount); err != nil {
		return nil, errors.Wrap(err, "sweep tokens")
	}
	if err := h.tokens.CloseAccount(ctx, db, proof, msg.VaultAccount, msg.Authority); err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	box.Close()
	if err := h.boxs.Put(db, msg.TokenBoxAddress, box); err != nil {
		return nil, errors.Wrap(err, "store token box")
	}
	return &lockbox.DeliverResult{Data: msg.TokenBoxAddress}, nil
}

func (h SweepTokenBoxHandler) validate(ctx lockbox.Context, db lockbox.KVStore, tx lockbox.Tx) (*SweepTokenBoxMsg, *TokenBox, error) {
	var msg SweepTokenBoxMsg
	if err := lockbox.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := authorizeSweep(ctx, db, h.auth, h.states, msg.StateAddress, msg.Authority); err != nil {
		return nil, nil, err
	}

	var box TokenBox
	if err := h.boxs.One(db, msg.TokenBoxAddress, &box); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, nil, errors.Wrap(ErrUnknownBox, "no box at address")
		}
		return nil, nil, errors.Wrap(err, "load token box")
	}
	if box.IsClosed() {
		return nil, nil, errors.Wrap(ErrUnknownBox, "already closed")
	}
	if !lockbox.IsExpired(ctx, box.Deadline) {
		return nil, nil, errors.Wrap(ErrNotExpired, "deadline not reached")
	}

	vaultAuthority := VaultCondition(msg.TokenBoxAddress).Address()
	if !msg.VaultAuthority.Equals(vaultAuthority) {
		return nil, nil, errors.Wrap(ErrInvalidAccount, "vault authority")
	}
	if !msg.VaultAccount.Equals(token.AccountAddress(vaultAuthority, box.Mint)) {
		return nil, nil, errors.Wrap(ErrInvalidAccount, "vault account")
	}
	return &msg, &box, nil
}
