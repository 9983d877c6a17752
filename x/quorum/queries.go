package quorum

import (
	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
)

// Transaction returns a copy of the stored transaction record.
func (c *Controller) Transaction(db wardroom.ReadOnlyKVStore, id int64) (*Transaction, error) {
	tx, err := c.txs.GetTransaction(db, orm.EncodeSequence(id))
	if err != nil {
		return nil, err
	}
	return tx.Copy(), nil
}

// TransactionCount returns the number of transactions ever submitted,
// executed or not.
func (c *Controller) TransactionCount(db wardroom.ReadOnlyKVStore) int64 {
	return c.txs.Count(db)
}

// HasConfirmed returns true if the signer has an active confirmation on the
// transaction.
func (c *Controller) HasConfirmed(db wardroom.ReadOnlyKVStore, id int64, signer wardroom.Address) (bool, error) {
	key := orm.EncodeSequence(id)
	if !c.txs.Has(db, key) {
		return false, errors.Wrapf(errors.ErrNotFound, "transaction %d", id)
	}
	return c.confirms.Has(db, confirmKey(key, signer)), nil
}

// Confirmations returns the addresses with an active confirmation on the
// transaction, in ascending byte order.
func (c *Controller) Confirmations(db wardroom.ReadOnlyKVStore, id int64) ([]wardroom.Address, error) {
	key := orm.EncodeSequence(id)
	if !c.txs.Has(db, key) {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %d", id)
	}
	raw := c.confirms.Subset(db, key)
	out := make([]wardroom.Address, len(raw))
	for i, b := range raw {
		out[i] = wardroom.Address(b)
	}
	return out, nil
}

// PendingIDs returns the ids of all not yet executed transactions, in
// submission order.
func (c *Controller) PendingIDs(db wardroom.ReadOnlyKVStore) []int64 {
	keys := c.pending.Keys(db)
	out := make([]int64, len(keys))
	for i, k := range keys {
		out[i] = orm.DecodeSequence(k)
	}
	return out
}

// PendingCount returns the number of not yet executed transactions.
func (c *Controller) PendingCount(db wardroom.ReadOnlyKVStore) int {
	return c.pending.Count(db)
}

// Signers returns a copy of the current registry members.
func (c *Controller) Signers(db wardroom.ReadOnlyKVStore) ([]wardroom.Address, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return nil, err
	}
	return set.Copy().Signers, nil
}

// IsSigner returns true if the address is a current registry member.
func (c *Controller) IsSigner(db wardroom.ReadOnlyKVStore, a wardroom.Address) (bool, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return false, err
	}
	return set.Contains(a), nil
}

// SignerCount returns the number of current registry members.
func (c *Controller) SignerCount(db wardroom.ReadOnlyKVStore) (int, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return 0, err
	}
	return len(set.Signers), nil
}

// Threshold returns the confirmation threshold currently in force.
func (c *Controller) Threshold(db wardroom.ReadOnlyKVStore) (uint32, error) {
	set, err := c.signers.GetSignerSet(db)
	if err != nil {
		return 0, err
	}
	return set.Threshold, nil
}
