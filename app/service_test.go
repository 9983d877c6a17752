package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/store"
	"github.com/wardroom/wardroom/store/pebbledb"
	"github.com/wardroom/wardroom/wardroomtest"
	"github.com/wardroom/wardroom/x/quorum"
)

func genesisDoc(threshold uint32, signers ...wardroom.Address) []byte {
	doc := `{"token": {"name": "Wardroom", "symbol": "WAR"}, "quorum": {"signers": [`
	for i, s := range signers {
		if i > 0 {
			doc += ", "
		}
		doc += fmt.Sprintf("%q", s)
	}
	doc += fmt.Sprintf(`], "threshold": %d}}`, threshold)
	return []byte(doc)
}

func newTestService(t *testing.T, threshold uint32, n int) (*Service, []wardroom.Address) {
	t.Helper()
	signers := make([]wardroom.Address, n)
	for i := range signers {
		signers[i] = wardroomtest.SequentialAddress(uint64(i + 1))
	}
	s := NewService(store.MemStore(), nil)
	require.NoError(t, s.InitGenesis(genesisDoc(threshold, signers...)))
	return s, signers
}

func TestGenesisBootstrap(t *testing.T) {
	s, signers := newTestService(t, 2, 3)

	got, err := s.Signers()
	require.NoError(t, err)
	assert.Equal(t, signers, got)

	th, err := s.Threshold()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), th)

	info, err := s.TokenInfo()
	require.NoError(t, err)
	assert.Equal(t, "WAR", info.Symbol)
	assert.True(t, info.TransfersEnabled)
	assert.Equal(t, int64(0), s.TransactionCount())
}

func TestMintFlow(t *testing.T) {
	s, signers := newTestService(t, 2, 3)
	recipient := wardroomtest.RandomAddress()

	id, err := s.SubmitMint(signers[0], recipient, 1000)
	require.NoError(t, err)

	balance, err := s.BalanceOf(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)

	require.NoError(t, s.Confirm(signers[1], id))

	balance, err = s.BalanceOf(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), balance)
	supply, err := s.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), supply)
	assert.Empty(t, s.PendingIDs())
}

func TestPauseBlocksTransfers(t *testing.T) {
	s, signers := newTestService(t, 2, 3)
	src := wardroomtest.RandomAddress()
	dest := wardroomtest.RandomAddress()

	id, err := s.SubmitMint(signers[0], src, 100)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))

	require.NoError(t, s.Transfer(src, dest, 10))

	id, err = s.SubmitPause(signers[0])
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))

	err = s.Transfer(src, dest, 10)
	assert.True(t, errors.ErrState.Is(err))

	id, err = s.SubmitUnpause(signers[0])
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))
	require.NoError(t, s.Transfer(src, dest, 10))
}

func TestRenameValidatedAtSubmission(t *testing.T) {
	s, signers := newTestService(t, 2, 3)

	// A symbol the ledger model refuses must be rejected upfront, not
	// queued into a transaction that could never execute.
	_, err := s.SubmitRename(signers[0], "Wardroom", "war")
	assert.True(t, errors.ErrInput.Is(err))
	assert.Empty(t, s.PendingIDs())
	assert.Equal(t, int64(0), s.TransactionCount())

	id, err := s.SubmitRename(signers[0], "Mess Deck", "MESS")
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))
	info, err := s.TokenInfo()
	require.NoError(t, err)
	assert.Equal(t, "MESS", info.Symbol)
}

func TestFailedExecutionLeavesNoTrace(t *testing.T) {
	s, signers := newTestService(t, 2, 3)
	account := wardroomtest.RandomAddress()
	sink := wardroomtest.RandomAddress()

	id, err := s.SubmitMint(signers[0], account, 100)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))

	burnID, err := s.SubmitBurn(signers[0], account, 100)
	require.NoError(t, err)

	// The balance drops while confirmations are collected.
	require.NoError(t, s.Transfer(account, sink, 80))

	err = s.Confirm(signers[1], burnID)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))

	// The failed call left nothing behind. The transaction is still
	// pending and the crossing confirmation was not retained.
	tx, err := s.Transaction(burnID)
	require.NoError(t, err)
	assert.False(t, tx.Executed)
	assert.Equal(t, uint32(1), tx.ConfirmationCount)
	assert.Equal(t, []int64{burnID}, s.PendingIDs())
	ok, err := s.HasConfirmed(burnID, signers[1])
	require.NoError(t, err)
	assert.False(t, ok)
	balance, err := s.BalanceOf(account)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	// Once the balance is restored the same signer confirms again and
	// the burn goes through.
	require.NoError(t, s.Transfer(sink, account, 80))
	require.NoError(t, s.Confirm(signers[1], burnID))
	balance, err = s.BalanceOf(account)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
	supply, err := s.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(0), supply)
}

// reentrantLedger wraps the real ledger and calls back into the service
// during execution to prove that re-entrant calls are refused, not queued.
type reentrantLedger struct {
	quorum.Ledger
	svc    *Service
	caller wardroom.Address
	got    error
}

func (l *reentrantLedger) Mint(db wardroom.KVStore, recipient wardroom.Address, amount int64) error {
	_, l.got = l.svc.SubmitPause(l.caller)
	return l.Ledger.Mint(db, recipient, amount)
}

func TestReentrantCallRejected(t *testing.T) {
	s, signers := newTestService(t, 2, 3)

	hostile := &reentrantLedger{Ledger: s.token, svc: s, caller: signers[0]}
	s.quorum = quorum.NewController(hostile, nil)

	recipient := wardroomtest.RandomAddress()
	id, err := s.SubmitMint(signers[0], recipient, 100)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))

	// The mint itself went through, the nested call did not.
	assert.True(t, ErrBusy.Is(hostile.got))
	balance, err := s.BalanceOf(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	assert.Equal(t, int64(1), s.TransactionCount())
}

func TestSignerGovernanceFlow(t *testing.T) {
	s, signers := newTestService(t, 2, 2)
	newbie := wardroomtest.RandomAddress()

	id, err := s.SubmitAddSigner(signers[0], newbie)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))

	id, err = s.SubmitRemoveSigner(newbie, signers[0])
	require.NoError(t, err)
	require.NoError(t, s.Confirm(signers[1], id))

	got, err := s.Signers()
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NotContains(t, got, signers[0])

	_, err = s.SubmitPause(signers[0])
	assert.Error(t, err)
}

func TestPebbleBackedService(t *testing.T) {
	dir := t.TempDir()

	db, err := pebbledb.Open(dir)
	require.NoError(t, err)

	s := NewService(db, nil)
	a := wardroomtest.SequentialAddress(1)
	b := wardroomtest.SequentialAddress(2)
	require.NoError(t, s.InitGenesis(genesisDoc(2, a, b)))

	recipient := wardroomtest.RandomAddress()
	id, err := s.SubmitMint(a, recipient, 777)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(b, id))
	require.NoError(t, db.Close())

	// State survives a reopen.
	db, err = pebbledb.Open(dir)
	require.NoError(t, err)
	defer db.Close()

	s = NewService(db, nil)
	balance, err := s.BalanceOf(recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(777), balance)
	th, err := s.Threshold()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), th)
}
