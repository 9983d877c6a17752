package quorum

import (
	"time"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
)

// Ledger is the collaborator that quorum decisions are applied to. The
// token controller implements it.
type Ledger interface {
	BalanceOf(db wardroom.ReadOnlyKVStore, account wardroom.Address) (int64, error)
	Mint(db wardroom.KVStore, recipient wardroom.Address, amount int64) error
	Burn(db wardroom.KVStore, account wardroom.Address, amount int64) error
	SetTransfersEnabled(db wardroom.KVStore, enabled bool) error
	SetNameSymbol(db wardroom.KVStore, name, symbol string) error
	// ValidateNameSymbol reports whether SetNameSymbol would accept the
	// metadata, so a doomed rename is refused before any record exists.
	ValidateNameSymbol(name, symbol string) error
}

// Controller implements the m-of-n authorization engine. Submitting a
// transaction records the proposer's confirmation. Once confirmations reach
// the threshold in force at that moment, the transaction executes against
// the ledger within the same call.
//
// The controller keeps no state of its own, everything lives in the KVStore
// that is passed into every method. Callers are expected to run each
// mutating call against a cache-wrap and only write it through on success,
// which makes every operation all or nothing.
type Controller struct {
	txs      TransactionBucket
	signers  SignerBucket
	pending  orm.KeySet
	confirms orm.KeySet
	ledger   Ledger
	events   *Events

	// now is a clock hook, replaced in tests.
	now func() wardroom.UnixTime
}

// NewController returns a controller applying quorum decisions to the given
// ledger. A nil events sink discards all events.
func NewController(ledger Ledger, events *Events) *Controller {
	if events == nil {
		events = NewEvents(nil)
	}
	return &Controller{
		txs:      NewTransactionBucket(),
		signers:  NewSignerBucket(),
		pending:  orm.NewKeySet(PendingBucketName),
		confirms: orm.NewKeySet(ConfirmBucketName),
		ledger:   ledger,
		events:   events,
		now: func() wardroom.UnixTime {
			return wardroom.AsUnixTime(time.Now())
		},
	}
}

// confirmKey builds the compound (transaction, signer) membership key.
func confirmKey(txKey []byte, signer wardroom.Address) []byte {
	out := make([]byte, 0, len(txKey)+len(signer))
	out = append(out, txKey...)
	return append(out, signer...)
}

// authorize loads the registry and ensures the caller is a member.
func (c *Controller) authorize(db wardroom.ReadOnlyKVStore, caller wardroom.Address) (*SignerSet, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return nil, err
	}
	if !set.Contains(caller) {
		return nil, errors.Wrapf(ErrNotSigner, "%s", caller)
	}
	return set, nil
}

// SubmitPause queues a transaction that disables token transfers.
func (c *Controller) SubmitPause(db wardroom.KVStore, caller wardroom.Address) (int64, error) {
	return c.submit(db, caller, &Transaction{Kind: KindPause})
}

// SubmitUnpause queues a transaction that re-enables token transfers.
func (c *Controller) SubmitUnpause(db wardroom.KVStore, caller wardroom.Address) (int64, error) {
	return c.submit(db, caller, &Transaction{Kind: KindUnpause})
}

// SubmitRename queues a transaction that changes the token name and symbol.
func (c *Controller) SubmitRename(db wardroom.KVStore, caller wardroom.Address, name, symbol string) (int64, error) {
	if name == "" {
		return 0, errors.Wrap(errors.ErrEmpty, "name")
	}
	if symbol == "" {
		return 0, errors.Wrap(errors.ErrEmpty, "symbol")
	}
	if err := c.ledger.ValidateNameSymbol(name, symbol); err != nil {
		return 0, errors.Wrap(err, "rename")
	}
	return c.submit(db, caller, &Transaction{
		Kind:      KindRename,
		NewName:   name,
		NewSymbol: symbol,
	})
}

// SubmitMint queues a transaction that creates new tokens for the recipient.
func (c *Controller) SubmitMint(db wardroom.KVStore, caller, recipient wardroom.Address, amount int64) (int64, error) {
	if err := recipient.Validate(); err != nil {
		return 0, errors.Wrap(err, "recipient")
	}
	if amount <= 0 {
		return 0, errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return c.submit(db, caller, &Transaction{
		Kind:   KindMint,
		Target: recipient,
		Amount: amount,
	})
}

// SubmitBurn queues a transaction that destroys tokens held by the account.
// The balance is checked now and again at execution time, as it may have
// changed while confirmations were collected.
func (c *Controller) SubmitBurn(db wardroom.KVStore, caller, account wardroom.Address, amount int64) (int64, error) {
	if err := account.Validate(); err != nil {
		return 0, errors.Wrap(err, "account")
	}
	if amount <= 0 {
		return 0, errors.Wrap(errors.ErrAmount, "must be positive")
	}
	balance, err := c.ledger.BalanceOf(db, account)
	if err != nil {
		return 0, errors.Wrap(err, "balance")
	}
	if balance < amount {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount,
			"balance %d, burn %d", balance, amount)
	}
	return c.submit(db, caller, &Transaction{
		Kind:   KindBurn,
		Target: account,
		Amount: amount,
	})
}

// SubmitReplaceSigner queues a transaction that swaps a registry member for
// a new address.
func (c *Controller) SubmitReplaceSigner(db wardroom.KVStore, caller, old, newSigner wardroom.Address) (int64, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return 0, err
	}
	// Rehearse the mutation on a copy so that an impossible change is
	// refused at submission already.
	if err := set.Copy().Replace(old, newSigner); err != nil {
		return 0, err
	}
	return c.submit(db, caller, &Transaction{
		Kind:      KindReplaceSigner,
		Target:    old,
		NewSigner: newSigner,
	})
}

// SubmitAddSigner queues a transaction that adds a new registry member.
func (c *Controller) SubmitAddSigner(db wardroom.KVStore, caller, newSigner wardroom.Address) (int64, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return 0, err
	}
	if err := set.Copy().Add(newSigner); err != nil {
		return 0, err
	}
	return c.submit(db, caller, &Transaction{
		Kind:      KindAddSigner,
		NewSigner: newSigner,
	})
}

// SubmitRemoveSigner queues a transaction that removes a registry member.
func (c *Controller) SubmitRemoveSigner(db wardroom.KVStore, caller, signer wardroom.Address) (int64, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return 0, err
	}
	if err := set.Copy().Remove(signer); err != nil {
		return 0, err
	}
	return c.submit(db, caller, &Transaction{
		Kind:   KindRemoveSigner,
		Target: signer,
	})
}

// SubmitUpdateThreshold queues a transaction that changes the confirmation
// threshold.
func (c *Controller) SubmitUpdateThreshold(db wardroom.KVStore, caller wardroom.Address, threshold uint32) (int64, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return 0, err
	}
	if err := set.Copy().UpdateThreshold(threshold); err != nil {
		return 0, err
	}
	return c.submit(db, caller, &Transaction{
		Kind:   KindUpdateThreshold,
		Amount: int64(threshold),
	})
}

// submit persists a new transaction record and registers the proposer's
// confirmation. With a threshold of one this executes immediately.
func (c *Controller) submit(db wardroom.KVStore, caller wardroom.Address, tx *Transaction) (int64, error) {
	if _, err := c.authorize(db, caller); err != nil {
		return 0, err
	}
	key := c.txs.NextKey(db)
	id := orm.DecodeSequence(key)
	tx.CreatedAt = c.now()
	if err := c.txs.Save(db, key, tx); err != nil {
		return 0, errors.Wrap(err, "save transaction")
	}
	c.pending.Add(db, key)
	c.events.TransactionSubmitted(id, tx.Kind, caller)
	if err := c.confirm(db, caller, id, key, tx); err != nil {
		return 0, err
	}
	return id, nil
}

// Confirm records the caller's approval of a pending transaction. If this
// confirmation reaches the current threshold, the transaction executes
// before Confirm returns. An execution failure fails the whole call, the
// confirmation is not retained and can be given again.
func (c *Controller) Confirm(db wardroom.KVStore, caller wardroom.Address, id int64) error {
	if _, err := c.authorize(db, caller); err != nil {
		return err
	}
	key := orm.EncodeSequence(id)
	tx, err := c.txs.GetTransaction(db, key)
	if err != nil {
		return err
	}
	return c.confirm(db, caller, id, key, tx)
}

func (c *Controller) confirm(db wardroom.KVStore, caller wardroom.Address, id int64, key []byte, tx *Transaction) error {
	if tx.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	ck := confirmKey(key, caller)
	if c.confirms.Has(db, ck) {
		return errors.Wrapf(ErrAlreadyConfirmed, "transaction %d", id)
	}
	c.confirms.Add(db, ck)
	tx.ConfirmationCount++
	if err := c.txs.Save(db, key, tx); err != nil {
		return errors.Wrap(err, "save transaction")
	}
	c.events.TransactionConfirmed(id, caller)

	// The threshold in force right now decides, not the one from
	// submission time.
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return err
	}
	if tx.ConfirmationCount >= set.Threshold {
		return c.execute(db, id, key, tx)
	}
	return nil
}

// Revoke withdraws the caller's earlier confirmation of a pending
// transaction. Revoking never triggers execution, even if other signers
// later bring the count back to the threshold the transaction still waits
// for an explicit Confirm or Execute.
func (c *Controller) Revoke(db wardroom.KVStore, caller wardroom.Address, id int64) error {
	if _, err := c.authorize(db, caller); err != nil {
		return err
	}
	key := orm.EncodeSequence(id)
	tx, err := c.txs.GetTransaction(db, key)
	if err != nil {
		return err
	}
	if tx.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	ck := confirmKey(key, caller)
	if !c.confirms.Has(db, ck) {
		return errors.Wrapf(ErrNotConfirmed, "transaction %d", id)
	}
	c.confirms.Remove(db, ck)
	tx.ConfirmationCount--
	if err := c.txs.Save(db, key, tx); err != nil {
		return errors.Wrap(err, "save transaction")
	}
	c.events.TransactionRevoked(id, caller)
	return nil
}

// Execute applies a pending transaction that already has enough
// confirmations. This is the manual trigger for transactions that reached
// the threshold without executing, for example after the threshold was
// lowered.
func (c *Controller) Execute(db wardroom.KVStore, caller wardroom.Address, id int64) error {
	set, err := c.authorize(db, caller)
	if err != nil {
		return err
	}
	key := orm.EncodeSequence(id)
	tx, err := c.txs.GetTransaction(db, key)
	if err != nil {
		return err
	}
	if tx.Executed {
		return errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}
	if tx.ConfirmationCount < set.Threshold {
		return errors.Wrapf(ErrInsufficientConfirmations,
			"%d of %d", tx.ConfirmationCount, set.Threshold)
	}
	return c.execute(db, id, key, tx)
}

// execute applies the transaction effect. The record is marked executed
// before the effect is applied. On failure the error propagates to the
// caller, whose cache-wrap discard rolls back the marking together with
// everything else done during the call.
func (c *Controller) execute(db wardroom.KVStore, id int64, key []byte, tx *Transaction) error {
	tx.Executed = true
	if err := c.txs.Save(db, key, tx); err != nil {
		return errors.Wrap(err, "save transaction")
	}
	c.pending.Remove(db, key)

	var err error
	switch tx.Kind {
	case KindPause:
		err = c.ledger.SetTransfersEnabled(db, false)
	case KindUnpause:
		err = c.ledger.SetTransfersEnabled(db, true)
	case KindRename:
		err = c.ledger.SetNameSymbol(db, tx.NewName, tx.NewSymbol)
	case KindMint:
		err = c.ledger.Mint(db, tx.Target, tx.Amount)
	case KindBurn:
		err = c.ledger.Burn(db, tx.Target, tx.Amount)
	case KindReplaceSigner:
		err = c.mutateSigners(db, func(s *SignerSet) error {
			return s.Replace(tx.Target, tx.NewSigner)
		})
	case KindAddSigner:
		err = c.mutateSigners(db, func(s *SignerSet) error {
			return s.Add(tx.NewSigner)
		})
	case KindRemoveSigner:
		err = c.mutateSigners(db, func(s *SignerSet) error {
			return s.Remove(tx.Target)
		})
	case KindUpdateThreshold:
		err = c.mutateSigners(db, func(s *SignerSet) error {
			return s.UpdateThreshold(uint32(tx.Amount))
		})
	default:
		err = errors.Wrapf(errors.ErrHuman, "kind %d not executable", tx.Kind)
	}
	if err != nil {
		return errors.Wrapf(err, "execute transaction %d", id)
	}
	c.events.TransactionExecuted(id, tx.Kind)
	return nil
}

// mutateSigners loads the registry, applies the mutation and persists the
// result. Saving re-validates the registry invariant.
func (c *Controller) mutateSigners(db wardroom.KVStore, mutate func(*SignerSet) error) error {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return err
	}
	if err := mutate(set); err != nil {
		return err
	}
	if err := c.signers.SaveSignerSet(db, set); err != nil {
		return err
	}
	c.events.SignersChanged(set)
	return nil
}
