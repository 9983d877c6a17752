/*
Package pebbledb provides a persistent KVStore backend on top of
cockroachdb/pebble.

It satisfies the same CacheableKVStore contract as the in-memory store, so
the engine state can outlive a process without any change above the storage
boundary. Writes issued directly on the store are buffered (NoSync) and made
durable on Close; writes going through a cache wrap are committed as one
atomic pebble batch.
*/
package pebbledb

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/store"
)

// Store is a CacheableKVStore backed by a pebble database.
//
// The KVStore interface does not surface storage errors. A failing backend
// leaves no sane way to continue, so any pebble error results in a panic.
type Store struct {
	db *pebble.DB
}

var _ wardroom.CacheableKVStore = (*Store)(nil)

// Open creates or reopens a pebble database at the given path.
func Open(path string) (*Store, error) {
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(32 << 20),
		MemTableSize:                16 << 20,
		MemTableStopWritesThreshold: 2,
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close flushes buffered writes and releases the database.
func (s *Store) Close() error {
	if err := s.db.Flush(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}

// Get returns nil iff key doesn't exist. Panics on backend failure.
func (s *Store) Get(key []byte) []byte {
	value, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil
	}
	if err != nil {
		panic(fmt.Sprintf("pebble get: %s", err))
	}
	defer closer.Close()

	// Copy the value since it's invalid after closer.Close()
	result := make([]byte, len(value))
	copy(result, value)
	return result
}

// Has checks if a key exists.
func (s *Store) Has(key []byte) bool {
	return s.Get(key) != nil
}

// Set stores a key-value pair.
func (s *Store) Set(key, value []byte) {
	if err := s.db.Set(key, value, pebble.NoSync); err != nil {
		panic(fmt.Sprintf("pebble set: %s", err))
	}
}

// Delete removes a key from the store.
func (s *Store) Delete(key []byte) {
	if err := s.db.Delete(key, pebble.NoSync); err != nil {
		panic(fmt.Sprintf("pebble delete: %s", err))
	}
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (s *Store) Iterator(start, end []byte) wardroom.Iterator {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		panic(fmt.Sprintf("pebble iterator: %s", err))
	}
	it.First()
	return &iterator{it: it, reverse: false}
}

// ReverseIterator over a domain of keys in descending order. The domain is
// the same half-open [start, end) as for Iterator, only walked backwards.
func (s *Store) ReverseIterator(start, end []byte) wardroom.Iterator {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		panic(fmt.Sprintf("pebble iterator: %s", err))
	}
	it.Last()
	return &iterator{it: it, reverse: true}
}

// CacheWrap returns a scratch-pad that commits through a single atomic
// pebble batch, or discards without a trace.
func (s *Store) CacheWrap() wardroom.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, &batch{b: s.db.NewBatch()}, nil)
}

type batch struct {
	b *pebble.Batch
}

var _ wardroom.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) {
	if err := b.b.Set(key, value, nil); err != nil {
		panic(fmt.Sprintf("pebble batch set: %s", err))
	}
}

func (b *batch) Delete(key []byte) {
	if err := b.b.Delete(key, nil); err != nil {
		panic(fmt.Sprintf("pebble batch delete: %s", err))
	}
}

// Write commits all batched operations atomically. Either all pairs are
// written or none.
func (b *batch) Write() {
	if err := b.b.Commit(pebble.NoSync); err != nil {
		panic(fmt.Sprintf("pebble batch commit: %s", err))
	}
}

type iterator struct {
	it      *pebble.Iterator
	reverse bool
}

var _ wardroom.Iterator = (*iterator)(nil)

func (i *iterator) Valid() bool {
	return i.it.Valid()
}

func (i *iterator) Next() {
	if !i.it.Valid() {
		panic("iterating past the end")
	}
	if i.reverse {
		i.it.Prev()
	} else {
		i.it.Next()
	}
}

func (i *iterator) Key() []byte {
	key := i.it.Key()
	result := make([]byte, len(key))
	copy(result, key)
	return result
}

func (i *iterator) Value() []byte {
	value := i.it.Value()
	result := make([]byte, len(value))
	copy(result, value)
	return result
}

func (i *iterator) Close() {
	_ = i.it.Close()
}
