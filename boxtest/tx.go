package boxtest

import "github.com/lockbox-io/lockbox"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg lockbox.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ lockbox.Tx = (*Tx)(nil)

// NewTx wraps a message in a transaction, ready to be passed to a handler.
func NewTx(msg lockbox.Msg) *Tx {
	return &Tx{Msg: msg}
}

func (tx *Tx) GetMsg() (lockbox.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg is a mock message with a configurable path and payload.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ lockbox.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
