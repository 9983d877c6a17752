package store

import "github.com/wardroom/wardroom"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = wardroom.ReadOnlyKVStore
type KVStore = wardroom.KVStore
type Iterator = wardroom.Iterator
type SetDeleter = wardroom.SetDeleter
type Batch = wardroom.Batch
type CacheableKVStore = wardroom.CacheableKVStore
type KVCacheWrap = wardroom.KVCacheWrap
