package pebbledb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreGetSetDelete(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	k, v := []byte("drink"), []byte("grog")
	require.Nil(t, db.Get(k))
	require.False(t, db.Has(k))

	db.Set(k, v)
	require.Equal(t, v, db.Get(k))
	require.True(t, db.Has(k))

	db.Delete(k)
	require.Nil(t, db.Get(k))
}

func TestStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	db, err := Open(path)
	require.NoError(t, err)
	db.Set([]byte("key"), []byte("value"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	require.Equal(t, []byte("value"), db.Get([]byte("key")))
}

func TestStoreCacheWrap(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	db.Set([]byte("a"), []byte("1"))

	// a discarded wrap leaves no trace
	cw := db.CacheWrap()
	cw.Set([]byte("b"), []byte("2"))
	cw.Delete([]byte("a"))
	cw.Discard()
	require.Equal(t, []byte("1"), db.Get([]byte("a")))
	require.Nil(t, db.Get([]byte("b")))

	// a written wrap commits everything
	cw = db.CacheWrap()
	cw.Set([]byte("b"), []byte("2"))
	cw.Delete([]byte("a"))
	cw.Write()
	require.Nil(t, db.Get([]byte("a")))
	require.Equal(t, []byte("2"), db.Get([]byte("b")))
}

func TestStoreIterator(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	db.Set([]byte("p:1"), []byte("a"))
	db.Set([]byte("p:2"), []byte("b"))
	db.Set([]byte("q:1"), []byte("c"))

	var keys []string
	it := db.Iterator([]byte("p:"), []byte("p;"))
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	require.Equal(t, []string{"p:1", "p:2"}, keys)
}

func TestStoreReverseIterator(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()

	db.Set([]byte("a"), []byte("1"))
	db.Set([]byte("b"), []byte("2"))
	db.Set([]byte("c"), []byte("3"))
	db.Set([]byte("d"), []byte("4"))

	// same half-open [start, end) domain as the forward iterator, start
	// inclusive and end exclusive, walked backwards
	var keys []string
	it := db.ReverseIterator([]byte("b"), []byte("d"))
	for ; it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	it.Close()
	require.Equal(t, []string{"c", "b"}, keys)
}
