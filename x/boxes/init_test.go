package boxes

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/boxtest"
	"github.com/lockbox-io/lockbox/boxtest/assert"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/lockbox-io/lockbox/store"
)

func TestGenesisAuthority(t *testing.T) {
	authority := boxtest.NewCondition().Address()
	genesis := fmt.Sprintf(`{"boxes": {"authority": %q}}`, authority)

	var opts lockbox.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	state, err := loadState(db, NewStateBucket())
	assert.Nil(t, err)
	assert.Equal(t, authority, state.Authority)

	// Running the initializer a second time must not overwrite.
	err = ini.FromGenesis(opts, db)
	assert.IsErr(t, errors.ErrState, err)
}

func TestGenesisWithoutAuthority(t *testing.T) {
	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(lockbox.Options{}, db))

	_, err := loadState(db, NewStateBucket())
	assert.IsErr(t, errors.ErrState, err)
}
