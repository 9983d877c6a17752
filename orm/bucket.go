/*
Package orm provides an easy to use db wrapper.

Break state space into prefixed sections called Buckets. Each bucket contains
only one type of object, addressed by a primary key. Do not use reflection
magic, better do stuff compile-time static, even if it is a bit of
boilerplate.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/wardroom/wardroom"
	"github.com/wardroom/wardroom/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored in a Bucket.
// Protobuf generated code provides the serialization half for free.
type Model interface {
	wardroom.Persistent
	Validate() error
}

// Bucket is a generic holder that stores models of a single type under a
// prefixed subspace of the db.
//
// This is a generic building block that should generally be embedded in a
// type-safe wrapper to ensure all data is the same type.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket name: %q", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// DBKey is the full key we store in the db, including prefix.
//
// We copy into a new array rather than use append, as we don't want
// consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the entity stored under the key into dest. It returns
// ErrNotFound when no entity exists under the key.
func (b Bucket) One(db wardroom.ReadOnlyKVStore, key []byte, dest Model) error {
	raw := db.Get(b.DBKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "bucket %s, key %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "bucket %s, key %X", b.name, key)
	}
	return nil
}

// Has returns true if an entity is stored under the key.
func (b Bucket) Has(db wardroom.ReadOnlyKVStore, key []byte) bool {
	return db.Has(b.DBKey(key))
}

// Save validates the model and persists it under the key.
func (b Bucket) Save(db wardroom.KVStore, key []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "bucket %s", b.name)
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "bucket %s", b.name)
	}
	db.Set(b.DBKey(key), raw)
	return nil
}

// Delete removes the entity stored under the key. Deleting a non-existing
// entity is a noop.
func (b Bucket) Delete(db wardroom.KVStore, key []byte) {
	db.Delete(b.DBKey(key))
}
