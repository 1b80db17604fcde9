package boxes

import (
	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
)

// Operation selectors of the wire format. A raw operation is a single
// selector byte followed by the fixed layout payload of the message.
const (
	opInitialize     byte = 0
	opCreateBox      byte = 1
	opOpenBox        byte = 2
	opSweepBox       byte = 3
	opCreateTokenBox byte = 4
	opOpenTokenBox   byte = 5
	opSweepTokenBox  byte = 6
)

// Tx wraps a single message. It is the transaction type produced by
// DecodeTx and consumed by the router.
type Tx struct {
	Msg lockbox.Msg
}

var _ lockbox.Tx = (*Tx)(nil)

// NewTx wraps the given message into a transaction.
func NewTx(msg lockbox.Msg) *Tx {
	return &Tx{Msg: msg}
}

func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "transaction without a message")
	}
	return tx.Msg, nil
}

// Marshal encodes the wrapped message into its wire form.
func (tx *Tx) Marshal() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}

	var selector byte
	switch msg.(type) {
	case *InitializeMsg:
		selector = opInitialize
	case *CreateBoxMsg:
		selector = opCreateBox
	case *OpenBoxMsg:
		selector = opOpenBox
	case *SweepBoxMsg:
		selector = opSweepBox
	case *CreateTokenBoxMsg:
		selector = opCreateTokenBox
	case *OpenTokenBoxMsg:
		selector = opOpenTokenBox
	case *SweepTokenBoxMsg:
		selector = opSweepTokenBox
	default:
		return nil, errors.Wrapf(errors.ErrType, "unsupported message type %T", msg)
	}

	payload, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	raw := make([]byte, 0, 1+len(payload))
	raw = append(raw, selector)
	return append(raw, payload...), nil
}

// Unmarshal decodes a raw operation in place.
func (tx *Tx) Unmarshal(raw []byte) error {
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrInput, "empty operation")
	}

	var msg lockbox.Msg
	switch raw[0] {
	case opInitialize:
		msg = &InitializeMsg{}
	case opCreateBox:
		msg = &CreateBoxMsg{}
	case opOpenBox:
		msg = &OpenBoxMsg{}
	case opSweepBox:
		msg = &SweepBoxMsg{}
	case opCreateTokenBox:
		msg = &CreateTokenBoxMsg{}
	case opOpenTokenBox:
		msg = &OpenTokenBoxMsg{}
	case opSweepTokenBox:
		msg = &SweepTokenBoxMsg{}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown selector %d", raw[0])
	}

	if err := msg.Unmarshal(raw[1:]); err != nil {
		return errors.Wrap(err, "unmarshal payload")
	}
	tx.Msg = msg
	return nil
}

// DecodeTx parses a raw operation. It is a lockbox.TxDecoder. Unknown
// selectors and malformed payloads are rejected here, before any handler
// runs.
func DecodeTx(raw []byte) (lockbox.Tx, error) {
	var tx Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, err
	}
	return &tx, nil
}

var _ lockbox.TxDecoder = DecodeTx
