package token

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
	"github.com/wardroom/wardroom/store"
	"github.com/wardroom/wardroom/wardroomtest"
)

func newTestLedger(t *testing.T) (*Controller, wardroom.KVStore) {
	t.Helper()
	db := store.MemStore()
	c := NewController(nil)
	err := orm.NewBucket(InfoBucketName).Save(db, infoKey, &TokenInfo{
		Name:             "Wardroom",
		Symbol:           "WAR",
		TransfersEnabled: true,
	})
	require.NoError(t, err)
	return c, db
}

func TestMintAndBalance(t *testing.T) {
	c, db := newTestLedger(t)
	addr := wardroomtest.RandomAddress()

	balance, err := c.BalanceOf(db, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	require.NoError(t, c.Mint(db, addr, 100))
	require.NoError(t, c.Mint(db, addr, 50))

	balance, err = c.BalanceOf(db, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	supply, err := c.TotalSupply(db)
	require.NoError(t, err)
	assert.Equal(t, int64(150), supply)
}

func TestMintRejections(t *testing.T) {
	c, db := newTestLedger(t)
	addr := wardroomtest.RandomAddress()

	assert.True(t, errors.ErrAmount.Is(c.Mint(db, addr, 0)))
	assert.True(t, errors.ErrAmount.Is(c.Mint(db, addr, -1)))
	assert.Error(t, c.Mint(db, nil, 10))

	require.NoError(t, c.Mint(db, addr, math.MaxInt64))
	err := c.Mint(db, wardroomtest.RandomAddress(), 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestBurn(t *testing.T) {
	c, db := newTestLedger(t)
	addr := wardroomtest.RandomAddress()
	require.NoError(t, c.Mint(db, addr, 100))

	require.NoError(t, c.Burn(db, addr, 60))
	balance, err := c.BalanceOf(db, addr)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)
	supply, err := c.TotalSupply(db)
	require.NoError(t, err)
	assert.Equal(t, int64(40), supply)

	err = c.Burn(db, addr, 41)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	assert.True(t, errors.ErrAmount.Is(c.Burn(db, addr, 0)))
}

func TestMove(t *testing.T) {
	c, db := newTestLedger(t)
	src := wardroomtest.RandomAddress()
	dest := wardroomtest.RandomAddress()
	require.NoError(t, c.Mint(db, src, 100))

	require.NoError(t, c.Move(db, src, dest, 30))
	srcBalance, err := c.BalanceOf(db, src)
	require.NoError(t, err)
	destBalance, err := c.BalanceOf(db, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(70), srcBalance)
	assert.Equal(t, int64(30), destBalance)

	err = c.Move(db, src, dest, 71)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	err = c.Move(db, src, src, 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestMoveWhilePaused(t *testing.T) {
	c, db := newTestLedger(t)
	src := wardroomtest.RandomAddress()
	dest := wardroomtest.RandomAddress()
	require.NoError(t, c.Mint(db, src, 100))

	require.NoError(t, c.SetTransfersEnabled(db, false))
	err := c.Move(db, src, dest, 10)
	assert.True(t, errors.ErrState.Is(err))

	// Minting and burning are not affected by the pause.
	require.NoError(t, c.Mint(db, src, 10))
	require.NoError(t, c.Burn(db, src, 10))

	require.NoError(t, c.SetTransfersEnabled(db, true))
	require.NoError(t, c.Move(db, src, dest, 10))
}

func TestSetNameSymbol(t *testing.T) {
	c, db := newTestLedger(t)

	require.NoError(t, c.SetNameSymbol(db, "Mess Deck", "MESS"))
	info, err := c.Info(db)
	require.NoError(t, err)
	assert.Equal(t, "Mess Deck", info.Name)
	assert.Equal(t, "MESS", info.Symbol)

	// Validation happens on save.
	assert.Error(t, c.SetNameSymbol(db, "", "MESS"))
	assert.Error(t, c.SetNameSymbol(db, "Mess Deck", "bad symbol"))
}

func TestGenesisInitializer(t *testing.T) {
	a := wardroomtest.SequentialAddress(1)
	b := wardroomtest.SequentialAddress(2)
	genesis := `{
		"token": {
			"name": "Wardroom",
			"symbol": "WAR",
			"accounts": [
				{"address": "` + a.String() + `", "balance": 100},
				{"address": "` + b.String() + `", "balance": 50}
			]
		}
	}`

	var opts wardroom.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	require.NoError(t, ini.FromGenesis(opts, db))

	c := NewController(nil)
	info, err := c.Info(db)
	require.NoError(t, err)
	assert.Equal(t, "Wardroom", info.Name)
	assert.True(t, info.TransfersEnabled)
	assert.Equal(t, int64(150), info.TotalSupply)

	balance, err := c.BalanceOf(db, a)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

func TestGenesisInitializerDuplicateAccount(t *testing.T) {
	a := wardroomtest.SequentialAddress(1)
	// The same address twice would desync the total supply from the sum
	// of balances.
	genesis := `{
		"token": {
			"name": "Wardroom",
			"symbol": "WAR",
			"accounts": [
				{"address": "` + a.String() + `", "balance": 100},
				{"address": "` + a.String() + `", "balance": 50}
			]
		}
	}`

	var opts wardroom.Options
	require.NoError(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	err := ini.FromGenesis(opts, db)
	assert.True(t, errors.ErrDuplicate.Is(err))
}
