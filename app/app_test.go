package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/store"
	"github.com/lockbox-io/lockbox/x/bank"
	"github.com/lockbox-io/lockbox/x/boxes"
	"github.com/lockbox-io/lockbox/x/token"
	"github.com/lockbox-io/lockbox/x/utils"
)

// newBoxApp assembles the full application stack: wire format decoder,
// decorator chain and all registered handlers over a fresh in-memory
// store.
func newBoxApp() (*Application, *boxtest.CtxAuth) {
	auth := &boxtest.CtxAuth{Key: "auth"}

	r := NewRouter()
	boxes.RegisterRoutes(r, auth, bank.NewController(), token.NewController())

	stack := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
	).WithHandler(r)

	return NewApplication(store.MemStore(), boxes.DecodeTx, stack), auth
}

func TestApplicationLifecycle(t *testing.T) {
	appl, auth := newBoxApp()

	sender := boxtest.NewCondition()
	authority := boxtest.NewCondition()
	recipient := boxtest.NewCondition().Address()

	genesis := fmt.Sprintf(`{
		"wallets": [{"address": %q, "balance": 1000}],
		"boxes": {"authority": %q}
	}`, sender.Address(), authority.Address())
	var opts lockbox.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))
	assert.Nil(t, appl.InitFromGenesis(opts, bank.Initializer{}, boxes.Initializer{}))

	now := time.Date(2021, 8, 5, 12, 0, 0, 0, time.UTC)
	id := boxtest.NewBoxID()
	boxAddr := boxes.BoxCondition(sender.Address(), id).Address()

	create := boxes.CreateBoxMsg{
		Sender:       sender.Address(),
		BoxAddress:   boxAddr,
		ID:           id,
		DeadlineDays: 1,
		Amount:       1000,
	}
	raw, err := boxes.NewTx(&create).Marshal()
	assert.Nil(t, err)

	ctx := lockbox.WithBlockTime(context.Background(), now)
	senderCtx := auth.SetConditions(ctx, sender)

	// Check does not persist anything.
	_, err = appl.CheckTx(senderCtx, raw)
	assert.Nil(t, err)
	cash := bank.NewController()
	balance, err := cash.Balance(appl.Store(), sender.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), balance)

	// Deliver does.
	res, err := appl.DeliverTx(senderCtx, raw)
	assert.Nil(t, err)
	assert.Equal(t, lockbox.Address(res.Data), boxAddr)
	balance, err = cash.Balance(appl.Store(), sender.Address())
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), balance)

	// Anyone may release before the deadline, no signer needed.
	open := boxes.OpenBoxMsg{BoxAddress: boxAddr, Recipient: recipient}
	raw, err = boxes.NewTx(&open).Marshal()
	assert.Nil(t, err)
	later := lockbox.WithBlockTime(context.Background(), now.Add(time.Hour))
	_, err = appl.DeliverTx(later, raw)
	assert.Nil(t, err)

	balance, err = cash.Balance(appl.Store(), recipient)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), balance)

	// The box is consumed, a replay fails and changes nothing.
	_, err = appl.DeliverTx(later, raw)
	assert.IsErr(t, boxes.ErrUnknownBox, err)
	balance, err = cash.Balance(appl.Store(), recipient)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), balance)
}

func TestApplicationRollsBackFailedDeliver(t *testing.T) {
	appl, auth := newBoxApp()

	sender := boxtest.NewCondition()
	// The sender has no wallet, funding the box must fail and leave no
	// record behind.
	id := boxtest.NewBoxID()
	create := boxes.CreateBoxMsg{
		Sender:       sender.Address(),
		BoxAddress:   boxes.BoxCondition(sender.Address(), id).Address(),
		ID:           id,
		DeadlineDays: 1,
		Amount:       1000,
	}
	raw, err := boxes.NewTx(&create).Marshal()
	assert.Nil(t, err)

	now := time.Date(2021, 8, 5, 12, 0, 0, 0, time.UTC)
	ctx := auth.SetConditions(lockbox.WithBlockTime(context.Background(), now), sender)
	_, err = appl.DeliverTx(ctx, raw)
	assert.IsErr(t, errors.ErrNotFound, err)

	err = boxes.NewBoxBucket().Has(appl.Store(), create.BoxAddress)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestApplicationRejectsGarbage(t *testing.T) {
	appl, _ := newBoxApp()
	ctx := context.Background()

	_, err := appl.DeliverTx(ctx, []byte{250})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = appl.CheckTx(ctx, nil)
	assert.IsErr(t, errors.ErrInput, err)
}
