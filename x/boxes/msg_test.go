package boxes

import (
	"testing"

	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
)

func validCreateBoxMsg() CreateBoxMsg {
	sender := boxtest.NewCondition().Address()
	id := boxtest.NewBoxID()
	return CreateBoxMsg{
		Sender:       sender,
		BoxAddress:   BoxCondition(sender, id).Address(),
		ID:           id,
		DeadlineDays: 30,
		Amount:       1000,
	}
}

func TestCreateBoxMsgValidate(t *testing.T) {
	msg := validCreateBoxMsg()
	assert.Nil(t, msg.Validate())

	msg = validCreateBoxMsg()
	msg.DeadlineDays = 0
	assert.IsErr(t, ErrBadDeadline, msg.Validate())

	msg = validCreateBoxMsg()
	msg.DeadlineDays = 366
	assert.IsErr(t, ErrBadDeadline, msg.Validate())

	msg = validCreateBoxMsg()
	msg.Amount = 0
	assert.IsErr(t, ErrNoFunds, msg.Validate())

	msg = validCreateBoxMsg()
	msg.ID = msg.ID[:16]
	assert.FieldError(t, msg.Validate(), "ID", errors.ErrInput)

	msg = validCreateBoxMsg()
	msg.Sender = nil
	assert.FieldError(t, msg.Validate(), "Sender", errors.ErrInput)
}

func TestCreateTokenBoxMsgValidate(t *testing.T) {
	sender := boxtest.NewCondition().Address()
	id := boxtest.NewBoxID()
	boxAddr := TokenBoxCondition(sender, id).Address()
	vaultAuth := VaultCondition(boxAddr).Address()
	mint := boxtest.NewCondition().Address()

	valid := CreateTokenBoxMsg{
		Sender:             sender,
		SenderTokenAccount: boxtest.NewCondition().Address(),
		TokenBoxAddress:    boxAddr,
		VaultAccount:       boxtest.NewCondition().Address(),
		Mint:               mint,
		VaultAuthority:     vaultAuth,
		ID:                 id,
		DeadlineDays:       1,
		Amount:             500,
	}
	assert.Nil(t, valid.Validate())

	msg := valid
	msg.DeadlineDays = 400
	assert.IsErr(t, ErrBadDeadline, msg.Validate())

	msg = valid
	msg.Amount = 0
	assert.IsErr(t, ErrNoFunds, msg.Validate())

	msg = valid
	msg.Mint = nil
	assert.FieldError(t, msg.Validate(), "Mint", errors.ErrInput)
}

func TestMsgPaths(t *testing.T) {
	assert.Equal(t, "boxes/initialize", InitializeMsg{}.Path())
	assert.Equal(t, "boxes/create", CreateBoxMsg{}.Path())
	assert.Equal(t, "boxes/open", OpenBoxMsg{}.Path())
	assert.Equal(t, "boxes/sweep", SweepBoxMsg{}.Path())
	assert.Equal(t, "boxes/create_token", CreateTokenBoxMsg{}.Path())
	assert.Equal(t, "boxes/open_token", OpenTokenBoxMsg{}.Path())
	assert.Equal(t, "boxes/sweep_token", SweepTokenBoxMsg{}.Path())
}
