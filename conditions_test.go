package lockbox_test

import (
	"encoding/json"
	"testing"

	"github.com/lockbox-io/lockbox"
	"github.com/lockbox-io/lockbox/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionAddressDeterminism(t *testing.T) {
	a := lockbox.NewCondition("boxes", "box", []byte("some-seed-data"))
	b := lockbox.NewCondition("boxes", "box", []byte("some-seed-data"))
	c := lockbox.NewCondition("boxes", "box", []byte("other-seed-data"))

	assert.True(t, a.Address().Equals(b.Address()))
	assert.False(t, a.Address().Equals(c.Address()))
	require.NoError(t, a.Address().Validate())
	assert.Len(t, []byte(a.Address()), lockbox.AddressLength)
}

func TestConditionParse(t *testing.T) {
	cond := lockbox.NewCondition("boxes", "vault", []byte{1, 2, 3, 0x20, 4})
	ext, typ, data, err := cond.Parse()
	require.NoError(t, err)
	assert.Equal(t, "boxes", ext)
	assert.Equal(t, "vault", typ)
	assert.Equal(t, []byte{1, 2, 3, 0x20, 4}, data)

	var bad lockbox.Condition = []byte("not-a-condition")
	_, _, _, err = bad.Parse()
	assert.Error(t, err)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cond := lockbox.NewCondition("foo", "bar", []byte("conditiondata"))

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr lockbox.Address
	}{
		"default decoding": {
			json:     `"0102030405060708090a0b0c0d0e0f1011121314"`,
			wantAddr: lockbox.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		},
		"hex decoding": {
			json:     `"hex:0102030405060708090a0b0c0d0e0f1011121314"`,
			wantAddr: lockbox.Address{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: cond.Address(),
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"wrong size": {
			json:    `"hex:0102"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
		"zero cond address": {
			json:     `"cond:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a lockbox.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("got error: %+v", err)
				}
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.wantAddr.Equals(a))
		})
	}
}

func TestAddressBech32RoundTrip(t *testing.T) {
	addr := lockbox.NewCondition("boxes", "box", []byte("roundtrip")).Address()
	enc, err := addr.Bech32String("box")
	require.NoError(t, err)

	raw, err := json.Marshal("bech32:" + enc)
	require.NoError(t, err)
	var got lockbox.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))
}
