package quorum

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/store"
	"github.com/wardroom/wardroom/wardroomtest"
)

func TestGenesisInitializer(t *testing.T) {
	a := wardroomtest.SequentialAddress(1)
	b := wardroomtest.SequentialAddress(2)
	genesis := fmt.Sprintf(`{
		"quorum": {
			"signers": [%q, %q],
			"threshold": 2
		}
	}`, a, b)

	var opts wardroom.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	set, err := NewSignerBucket().GetSignerSet(db)
	require.NoError(t, err)
	assert.Equal(t, []wardroom.Address{a, b}, set.Signers)
	assert.Equal(t, uint32(2), set.Threshold)
}

func TestGenesisInitializerInvalid(t *testing.T) {
	var opts wardroom.Options
	require.NoError(t, json.Unmarshal([]byte(`{"quorum": {"signers": [], "threshold": 1}}`), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Error(t, ini.FromGenesis(opts, db))
}
