package boxtest

import (
	"crypto/rand"

	"github.com/lockbox-io/lockbox"
)

// NewCondition returns a random signer condition, as if backed by a fresh
// key pair.
func NewCondition() lockbox.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return lockbox.NewCondition("sigs", "ed25519", data)
}

// NewBoxID returns a random 32 byte box identifier.
func NewBoxID() []byte {
	id := make([]byte, 32)
	if _, err := rand.Read(id); err != nil {
		panic(err)
	}
	return id
}
