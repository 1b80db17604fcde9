package boxes

import (
	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
)

// Initializer fulfils the Initializer interface to bootstrap the
// administrative authority from the genesis options, as an alternative to
// the initialize message.
type Initializer struct{}

var _ lockbox.Initializer = (*Initializer)(nil)

// FromGenesis will parse the initial authority from genesis and store the
// singleton state record.
func (Initializer) FromGenesis(opts lockbox.Options, db lockbox.KVStore) error {
	var conf struct {
		Authority lockbox.Address `json:"authority"`
	}
	if err := opts.ReadOptions("boxes", &conf); err != nil {
		return errors.Wrap(err, "cannot load boxes configuration")
	}
	if len(conf.Authority) == 0 {
		return nil
	}
	if err := conf.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}

	states := NewStateBucket()
	if states.Has(db, StateCondition().Address()) == nil {
		return errors.Wrap(errors.ErrState, "already initialized")
	}
	state := ProgramState{Authority: conf.Authority}
	return states.Put(db, StateCondition().Address(), &state)
}
