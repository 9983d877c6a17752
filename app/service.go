package app

import (
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/x/quorum"
	"github.com/wardroom/wardroom/x/token"
)

// ErrBusy is returned when a call arrives while another mutating call is
// still running. The engine never blocks a caller, it refuses.
var ErrBusy = errors.Register(1300, "engine busy")

// Service binds the quorum engine and the token ledger together over a
// single store. Every mutating call runs against a cache-wrap that is
// written through only on success, so a failing call leaves no trace.
type Service struct {
	db     wardroom.CacheableKVStore
	quorum *quorum.Controller
	token  *token.Controller
	log    *zap.Logger

	// busy serializes mutating calls. A call that finds the flag set is
	// rejected, including a re-entrant call made by a ledger collaborator
	// during execution.
	busy atomic.Bool
}

// NewService returns a service operating on the given store. A nil logger
// discards all log lines.
func NewService(db wardroom.CacheableKVStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	tok := token.NewController(log.Named("token"))
	return &Service{
		db:     db,
		quorum: quorum.NewController(tok, quorum.NewEvents(log.Named("quorum"))),
		token:  tok,
		log:    log,
	}
}

// InitGenesis bootstraps the store from a raw genesis document. It expects
// the "token" and "quorum" sections and must run exactly once, on an empty
// store.
func (s *Service) InitGenesis(raw []byte) error {
	var opts wardroom.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrap(err, "cannot parse genesis")
	}
	return s.mutate(func(db wardroom.KVStore) error {
		initializers := []wardroom.Initializer{
			&token.Initializer{},
			&quorum.Initializer{},
		}
		for _, i := range initializers {
			if err := i.FromGenesis(opts, db); err != nil {
				return err
			}
		}
		return nil
	})
}

// mutate runs fn against a cache-wrap of the store and writes the result
// through only if fn succeeds. Calls are strictly serialized.
func (s *Service) mutate(fn func(db wardroom.KVStore) error) error {
	if !s.busy.CompareAndSwap(false, true) {
		return errors.Wrap(ErrBusy, "mutating call in progress")
	}
	defer s.busy.Store(false)

	cache := s.db.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	cache.Write()
	return nil
}

// SubmitPause proposes disabling token transfers.
func (s *Service) SubmitPause(caller wardroom.Address) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitPause(db, caller)
		return err
	})
	return id, err
}

// SubmitUnpause proposes re-enabling token transfers.
func (s *Service) SubmitUnpause(caller wardroom.Address) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitUnpause(db, caller)
		return err
	})
	return id, err
}

// SubmitRename proposes changing the token name and symbol.
func (s *Service) SubmitRename(caller wardroom.Address, name, symbol string) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitRename(db, caller, name, symbol)
		return err
	})
	return id, err
}

// SubmitMint proposes minting tokens for the recipient.
func (s *Service) SubmitMint(caller, recipient wardroom.Address, amount int64) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitMint(db, caller, recipient, amount)
		return err
	})
	return id, err
}

// SubmitBurn proposes burning tokens held by the account.
func (s *Service) SubmitBurn(caller, account wardroom.Address, amount int64) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitBurn(db, caller, account, amount)
		return err
	})
	return id, err
}

// SubmitReplaceSigner proposes swapping a registry member for a new address.
func (s *Service) SubmitReplaceSigner(caller, old, newSigner wardroom.Address) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitReplaceSigner(db, caller, old, newSigner)
		return err
	})
	return id, err
}

// SubmitAddSigner proposes adding a new registry member.
func (s *Service) SubmitAddSigner(caller, newSigner wardroom.Address) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitAddSigner(db, caller, newSigner)
		return err
	})
	return id, err
}

// SubmitRemoveSigner proposes removing a registry member.
func (s *Service) SubmitRemoveSigner(caller, signer wardroom.Address) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitRemoveSigner(db, caller, signer)
		return err
	})
	return id, err
}

// SubmitUpdateThreshold proposes a new confirmation threshold.
func (s *Service) SubmitUpdateThreshold(caller wardroom.Address, threshold uint32) (int64, error) {
	var id int64
	err := s.mutate(func(db wardroom.KVStore) error {
		var err error
		id, err = s.quorum.SubmitUpdateThreshold(db, caller, threshold)
		return err
	})
	return id, err
}

// Confirm records the caller's approval of a pending transaction, executing
// it if this reaches the threshold.
func (s *Service) Confirm(caller wardroom.Address, id int64) error {
	return s.mutate(func(db wardroom.KVStore) error {
		return s.quorum.Confirm(db, caller, id)
	})
}

// Revoke withdraws the caller's confirmation of a pending transaction.
func (s *Service) Revoke(caller wardroom.Address, id int64) error {
	return s.mutate(func(db wardroom.KVStore) error {
		return s.quorum.Revoke(db, caller, id)
	})
}

// Execute applies a pending transaction that already has enough
// confirmations.
func (s *Service) Execute(caller wardroom.Address, id int64) error {
	return s.mutate(func(db wardroom.KVStore) error {
		return s.quorum.Execute(db, caller, id)
	})
}

// Transfer moves tokens between two accounts. Unlike the administrative
// operations this needs no quorum, only transfers being enabled.
func (s *Service) Transfer(src, dest wardroom.Address, amount int64) error {
	return s.mutate(func(db wardroom.KVStore) error {
		return s.token.Move(db, src, dest, amount)
	})
}

// Transaction returns a copy of the transaction record.
func (s *Service) Transaction(id int64) (*quorum.Transaction, error) {
	return s.quorum.Transaction(s.db, id)
}

// TransactionCount returns the number of transactions ever submitted.
func (s *Service) TransactionCount() int64 {
	return s.quorum.TransactionCount(s.db)
}

// HasConfirmed returns true if the signer has an active confirmation on the
// transaction.
func (s *Service) HasConfirmed(id int64, signer wardroom.Address) (bool, error) {
	return s.quorum.HasConfirmed(s.db, id, signer)
}

// Confirmations returns the addresses with an active confirmation on the
// transaction.
func (s *Service) Confirmations(id int64) ([]wardroom.Address, error) {
	return s.quorum.Confirmations(s.db, id)
}

// PendingIDs returns the ids of all not yet executed transactions.
func (s *Service) PendingIDs() []int64 {
	return s.quorum.PendingIDs(s.db)
}

// Signers returns the current registry members.
func (s *Service) Signers() ([]wardroom.Address, error) {
	return s.quorum.Signers(s.db)
}

// Threshold returns the confirmation threshold currently in force.
func (s *Service) Threshold() (uint32, error) {
	return s.quorum.Threshold(s.db)
}

// BalanceOf returns the token balance of the account.
func (s *Service) BalanceOf(account wardroom.Address) (int64, error) {
	return s.token.BalanceOf(s.db, account)
}

// TokenInfo returns the current token metadata.
func (s *Service) TokenInfo() (*token.TokenInfo, error) {
	return s.token.Info(s.db)
}

// TotalSupply returns the sum of all balances.
func (s *Service) TotalSupply() (int64, error) {
	return s.token.TotalSupply(s.db)
}
