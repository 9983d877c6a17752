package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardroom/wardroom/errors"
	"github.com/wardroom/wardroom/store"
)

// note is a minimal model for bucket tests.
type note struct {
	Text string
}

func (n *note) Marshal() ([]byte, error) {
	return []byte(n.Text), nil
}

func (n *note) Unmarshal(raw []byte) error {
	n.Text = string(raw)
	return nil
}

func (n *note) Validate() error {
	if n.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func TestBucketSaveOne(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes")

	var loaded note
	err := b.One(db, []byte("k"), &loaded)
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.False(t, b.Has(db, []byte("k")))

	require.NoError(t, b.Save(db, []byte("k"), &note{Text: "hello"}))
	require.NoError(t, b.One(db, []byte("k"), &loaded))
	assert.Equal(t, "hello", loaded.Text)
	assert.True(t, b.Has(db, []byte("k")))

	b.Delete(db, []byte("k"))
	assert.False(t, b.Has(db, []byte("k")))
}

func TestBucketSaveInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("notes")

	err := b.Save(db, []byte("k"), &note{})
	assert.True(t, errors.ErrEmpty.Is(err))
	assert.False(t, b.Has(db, []byte("k")))
}

func TestBucketKeysAreIsolated(t *testing.T) {
	db := store.MemStore()
	a := NewBucket("alpha")
	b := NewBucket("bravo")

	require.NoError(t, a.Save(db, []byte("k"), &note{Text: "a"}))
	require.NoError(t, b.Save(db, []byte("k"), &note{Text: "b"}))

	var got note
	require.NoError(t, a.One(db, []byte("k"), &got))
	assert.Equal(t, "a", got.Text)
	require.NoError(t, b.One(db, []byte("k"), &got))
	assert.Equal(t, "b", got.Text)
}

func TestBucketIllegalName(t *testing.T) {
	for _, name := range []string{"", "ab", "UPPER", "with space", "toolongname"} {
		assert.Panics(t, func() { NewBucket(name) }, name)
	}
}

func TestKeySet(t *testing.T) {
	db := store.MemStore()
	s := NewKeySet("pending")

	assert.Equal(t, 0, s.Count(db))
	assert.False(t, s.Has(db, []byte("one")))

	s.Add(db, []byte("one"))
	s.Add(db, []byte("two"))
	s.Add(db, []byte("one")) // noop
	assert.Equal(t, 2, s.Count(db))
	assert.True(t, s.Has(db, []byte("one")))
	assert.True(t, s.Has(db, []byte("two")))

	s.Remove(db, []byte("one"))
	assert.Equal(t, 1, s.Count(db))
	assert.False(t, s.Has(db, []byte("one")))

	keys := s.Keys(db)
	require.Len(t, keys, 1)
	assert.Equal(t, []byte("two"), keys[0])
}

func TestKeySetEnumerationOrder(t *testing.T) {
	db := store.MemStore()
	s := NewKeySet("pending")

	s.Add(db, EncodeSequence(2))
	s.Add(db, EncodeSequence(1))
	s.Add(db, EncodeSequence(3))

	keys := s.Keys(db)
	require.Len(t, keys, 3)
	// 8 byte big-endian sequence values enumerate in numeric order
	assert.Equal(t, int64(1), DecodeSequence(keys[0]))
	assert.Equal(t, int64(2), DecodeSequence(keys[1]))
	assert.Equal(t, int64(3), DecodeSequence(keys[2]))
}

func TestKeySetSubset(t *testing.T) {
	db := store.MemStore()
	s := NewKeySet("confirms")

	s.Add(db, []byte("a:x"))
	s.Add(db, []byte("a:y"))
	s.Add(db, []byte("b:z"))

	sub := s.Subset(db, []byte("a:"))
	require.Len(t, sub, 2)
	assert.Equal(t, []byte("x"), sub[0])
	assert.Equal(t, []byte("y"), sub[1])
	assert.Empty(t, s.Subset(db, []byte("c:")))
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	seq := NewSequence("tx", "id")

	assert.Equal(t, int64(0), seq.Latest(db))
	assert.Equal(t, int64(1), seq.NextInt(db))
	assert.Equal(t, int64(2), seq.NextInt(db))
	assert.Equal(t, int64(2), seq.Latest(db))

	bz := seq.NextVal(db)
	assert.Equal(t, int64(3), DecodeSequence(bz))

	// a sequence with a different name is independent
	other := NewSequence("tx", "other")
	assert.Equal(t, int64(1), other.NextInt(db))
	assert.Equal(t, int64(3), seq.Latest(db))
}
