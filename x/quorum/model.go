package quorum

import (
	"fmt"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/orm"
)

const (
	// BucketName is where we store the transaction records.
	BucketName = "txs"
	// SequenceName is the auto-increment ID counter for transactions.
	SequenceName = "id"

	// SignerBucketName is where we store the signer registry.
	SignerBucketName = "signers"
	// PendingBucketName is where we keep the ids of not yet executed
	// transactions.
	PendingBucketName = "pending"
	// ConfirmBucketName is where we keep (transaction, signer) pairs for
	// every confirmation given.
	ConfirmBucketName = "confirms"

	// To avoid burning CPU, this is the maximum number of signers allowed
	// to be part of a single registry.
	maxSignersAllowed = 100
)

// Kind selects the administrative action that a transaction performs once
// it reaches quorum. The set of kinds is closed, execution dispatches over
// it with a single exhaustive switch.
type Kind int32

const (
	KindInvalid Kind = iota
	KindPause
	KindUnpause
	KindRename
	KindMint
	KindBurn
	KindReplaceSigner
	KindAddSigner
	KindRemoveSigner
	KindUpdateThreshold
)

func (k Kind) String() string {
	switch k {
	case KindPause:
		return "pause"
	case KindUnpause:
		return "unpause"
	case KindRename:
		return "rename"
	case KindMint:
		return "mint"
	case KindBurn:
		return "burn"
	case KindReplaceSigner:
		return "replace_signer"
	case KindAddSigner:
		return "add_signer"
	case KindRemoveSigner:
		return "remove_signer"
	case KindUpdateThreshold:
		return "update_threshold"
	default:
		return fmt.Sprintf("kind:%d", int32(k))
	}
}

// Validate returns an error unless this is one of the declared kinds.
func (k Kind) Validate() error {
	if k <= KindInvalid || k > KindUpdateThreshold {
		return errors.Wrapf(errors.ErrState, "unknown kind %d", int32(k))
	}
	return nil
}

var _ orm.Model = (*Transaction)(nil)

func (t *Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if len(t.Target) != 0 {
		if err := t.Target.Validate(); err != nil {
			return errors.Wrap(err, "target")
		}
	}
	if len(t.NewSigner) != 0 {
		if err := t.NewSigner.Validate(); err != nil {
			return errors.Wrap(err, "new signer")
		}
	}
	if t.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	return nil
}

// Copy returns a deep copy of the record. Callers of the query interface
// receive copies, never handles into the store.
func (t *Transaction) Copy() *Transaction {
	cpy := *t
	cpy.Target = append(wardroom.Address(nil), t.Target...)
	cpy.NewSigner = append(wardroom.Address(nil), t.NewSigner...)
	return &cpy
}

var _ orm.Model = (*SignerSet)(nil)

// Validate enforces the registry invariant: a non-empty set of unique, well
// formed signers and a threshold within [1, signer count]. It runs on every
// save, so no mutation can leave the registry in a broken state.
func (s *SignerSet) Validate() error {
	switch n := len(s.Signers); {
	case n == 0:
		return errors.Wrap(errors.ErrModel, "no signers")
	case n > maxSignersAllowed:
		return errors.Wrap(errors.ErrModel, "too many signers")
	}
	index := make(map[string]struct{}, len(s.Signers))
	for _, a := range s.Signers {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "signer %s", a)
		}
		if _, ok := index[string(a)]; ok {
			return errors.Wrapf(ErrDuplicateSigner, "%s", a)
		}
		index[string(a)] = struct{}{}
	}
	if s.Threshold < 1 || int(s.Threshold) > len(s.Signers) {
		return errors.Wrapf(ErrInvalidThreshold,
			"threshold %d with %d signers", s.Threshold, len(s.Signers))
	}
	return nil
}

// Copy returns a deep copy of the signer set.
func (s *SignerSet) Copy() *SignerSet {
	signers := make([]wardroom.Address, len(s.Signers))
	for i, a := range s.Signers {
		signers[i] = append(wardroom.Address(nil), a...)
	}
	return &SignerSet{
		Signers:   signers,
		Threshold: s.Threshold,
	}
}

// TransactionBucket is a type-safe wrapper around orm.Bucket that also owns
// the id sequence.
type TransactionBucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

// NewTransactionBucket initializes a TransactionBucket with default name.
func NewTransactionBucket() TransactionBucket {
	return TransactionBucket{
		Bucket: orm.NewBucket(BucketName),
		idSeq:  orm.NewSequence(BucketName, SequenceName),
	}
}

// GetTransaction returns the transaction stored under the given key.
func (b TransactionBucket) GetTransaction(db wardroom.ReadOnlyKVStore, key []byte) (*Transaction, error) {
	var tx Transaction
	if err := b.One(db, key, &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", orm.DecodeSequence(key))
	}
	return &tx, nil
}

// NextKey allocates the next sequential transaction key.
func (b TransactionBucket) NextKey(db wardroom.KVStore) []byte {
	return b.idSeq.NextVal(db)
}

// Count returns the number of transactions ever submitted.
func (b TransactionBucket) Count(db wardroom.ReadOnlyKVStore) int64 {
	return b.idSeq.Latest(db)
}

// signerSetKey is the storage key of the singleton registry record.
var signerSetKey = []byte("current")

// SignerBucket is a type-safe wrapper around the registry storage.
type SignerBucket struct {
	orm.Bucket
}

// NewSignerBucket initializes a SignerBucket with default name.
func NewSignerBucket() SignerBucket {
	return SignerBucket{Bucket: orm.NewBucket(SignerBucketName)}
}

// GetSignerSet returns the current signer registry state.
func (b SignerBucket) GetSignerSet(db wardroom.ReadOnlyKVStore) (*SignerSet, error) {
	var s SignerSet
	if err := b.One(db, signerSetKey, &s); err != nil {
		return nil, errors.Wrap(err, "signer set")
	}
	return &s, nil
}

// SaveSignerSet persists the registry state, re-checking the invariant.
func (b SignerBucket) SaveSignerSet(db wardroom.KVStore, s *SignerSet) error {
	return b.Save(db, signerSetKey, s)
}
