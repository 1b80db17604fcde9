package boxes

import (
	"testing"

	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
)

func TestDecodeTxRoundTrip(t *testing.T) {
	msg := validCreateBoxMsg()
	raw, err := NewTx(&msg).Marshal()
	assert.Nil(t, err)
	assert.Equal(t, opCreateBox, raw[0])

	tx, err := DecodeTx(raw)
	assert.Nil(t, err)
	got, err := tx.GetMsg()
	assert.Nil(t, err)
	assert.Equal(t, &msg, got)
}

func TestDecodeTxRejectsUnknownSelector(t *testing.T) {
	_, err := DecodeTx([]byte{99, 1, 2, 3})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDecodeTxRejectsEmptyInput(t *testing.T) {
	_, err := DecodeTx(nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDecodeTxRejectsMalformedPayload(t *testing.T) {
	msg := validCreateBoxMsg()
	raw, err := NewTx(&msg).Marshal()
	assert.Nil(t, err)

	// Truncated payload.
	_, err = DecodeTx(raw[:len(raw)-1])
	assert.IsErr(t, errors.ErrInput, err)

	// Trailing garbage.
	_, err = DecodeTx(append(raw, 0))
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDecodeTxAllSelectors(t *testing.T) {
	msgs := []struct {
		selector byte
		size     int
	}{
		{opInitialize, 40},
		{opCreateBox, 82},
		{opOpenBox, 40},
		{opSweepBox, 60},
		{opCreateTokenBox, 162},
		{opOpenTokenBox, 100},
		{opSweepTokenBox, 120},
	}

	for _, tc := range msgs {
		raw := make([]byte, 1+tc.size)
		raw[0] = tc.selector
		// An all-zero payload parses, field validation happens later.
		tx, err := DecodeTx(raw)
		assert.Nil(t, err)
		msg, err := tx.GetMsg()
		assert.Nil(t, err)
		payload, err := msg.Marshal()
		assert.Nil(t, err)
		assert.Equal(t, tc.size, len(payload))
	}
}
