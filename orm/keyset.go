package orm

import (
	"fmt"

	"github.com/wardroom/wardroom"
)

// KeySet is a bucket of bare keys. It maintains set membership
// incrementally so that enumeration cost depends on the number of members,
// never on the total history of the surrounding data.
type KeySet struct {
	prefix []byte
}

// marker is the value stored for every member. The KVStore treats a nil
// value as absence, so membership needs a non-empty payload.
var marker = []byte{1}

// NewKeySet creates a set of keys stored under the given bucket name.
func NewKeySet(name string) KeySet {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	return KeySet{
		prefix: append([]byte(name), ':'),
	}
}

func (s KeySet) dbKey(key []byte) []byte {
	l := len(s.prefix)
	out := make([]byte, l+len(key))
	copy(out, s.prefix)
	copy(out[l:], key)
	return out
}

// Add inserts the key into the set. Adding an existing member is a noop.
func (s KeySet) Add(db wardroom.KVStore, key []byte) {
	db.Set(s.dbKey(key), marker)
}

// Remove deletes the key from the set. Removing a missing member is a noop.
func (s KeySet) Remove(db wardroom.KVStore, key []byte) {
	db.Delete(s.dbKey(key))
}

// Has returns true if the key is a member of the set.
func (s KeySet) Has(db wardroom.ReadOnlyKVStore, key []byte) bool {
	return db.Has(s.dbKey(key))
}

// Keys returns all members, in ascending byte order of the keys.
func (s KeySet) Keys(db wardroom.ReadOnlyKVStore) [][]byte {
	var keys [][]byte
	it := db.Iterator(s.prefix, prefixEnd(s.prefix))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		full := it.Key()
		key := make([]byte, len(full)-len(s.prefix))
		copy(key, full[len(s.prefix):])
		keys = append(keys, key)
	}
	return keys
}

// Subset returns all members that start with the given key prefix, with the
// prefix stripped. Useful for sets keyed by a compound key.
func (s KeySet) Subset(db wardroom.ReadOnlyKVStore, keyPrefix []byte) [][]byte {
	start := s.dbKey(keyPrefix)
	var keys [][]byte
	it := db.Iterator(start, prefixEnd(start))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		full := it.Key()
		key := make([]byte, len(full)-len(start))
		copy(key, full[len(start):])
		keys = append(keys, key)
	}
	return keys
}

// Count returns the number of members.
func (s KeySet) Count(db wardroom.ReadOnlyKVStore) int {
	var n int
	it := db.Iterator(s.prefix, prefixEnd(s.prefix))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		n++
	}
	return n
}

// prefixEnd returns the smallest key that is greater than every key starting
// with the prefix, to be used as the exclusive end of an iterator domain.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// The whole prefix is 0xff bytes, iterate to the very end.
	return nil
}
