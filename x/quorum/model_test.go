package quorum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/wardroomtest"
)

func TestSignerSetValidate(t *testing.T) {
	a := wardroomtest.SequentialAddress(1)
	b := wardroomtest.SequentialAddress(2)

	cases := map[string]struct {
		set     SignerSet
		wantErr *errors.Error
	}{
		"valid": {
			set: SignerSet{Signers: []wardroom.Address{a, b}, Threshold: 2},
		},
		"no signers": {
			set:     SignerSet{Threshold: 1},
			wantErr: errors.ErrModel,
		},
		"duplicate signer": {
			set:     SignerSet{Signers: []wardroom.Address{a, a}, Threshold: 1},
			wantErr: ErrDuplicateSigner,
		},
		"malformed signer": {
			set:     SignerSet{Signers: []wardroom.Address{a, {1, 2, 3}}, Threshold: 1},
			wantErr: errors.ErrInput,
		},
		"zero threshold": {
			set:     SignerSet{Signers: []wardroom.Address{a, b}},
			wantErr: ErrInvalidThreshold,
		},
		"threshold above count": {
			set:     SignerSet{Signers: []wardroom.Address{a, b}, Threshold: 3},
			wantErr: ErrInvalidThreshold,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
			}
		})
	}
}

func TestSignerSetCopyIsDeep(t *testing.T) {
	a := wardroomtest.SequentialAddress(1)
	set := &SignerSet{Signers: []wardroom.Address{a}, Threshold: 1}
	cpy := set.Copy()
	cpy.Signers[0][0] ^= 0xff
	cpy.Threshold = 9
	assert.Equal(t, a, set.Signers[0])
	assert.Equal(t, uint32(1), set.Threshold)
}

func TestTransactionSerialization(t *testing.T) {
	tx := Transaction{
		Kind:              KindMint,
		Target:            wardroomtest.SequentialAddress(7),
		Amount:            1234,
		ConfirmationCount: 2,
		CreatedAt:         wardroom.UnixTime(1700000000),
	}
	raw, err := tx.Marshal()
	require.NoError(t, err)

	var loaded Transaction
	require.NoError(t, loaded.Unmarshal(raw))
	assert.Equal(t, tx, loaded)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "mint", KindMint.String())
	assert.Equal(t, "update_threshold", KindUpdateThreshold.String())
	assert.Equal(t, "kind:99", Kind(99).String())
}
