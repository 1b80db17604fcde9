package store

import "github.com/lockbox-io/lockbox"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = lockbox.KVStore
type ReadOnlyKVStore = lockbox.ReadOnlyKVStore
type Iterator = lockbox.Iterator
type CacheableKVStore = lockbox.CacheableKVStore
type KVCacheWrap = lockbox.KVCacheWrap
type SetDeleter = lockbox.SetDeleter
type Batch = lockbox.Batch

// Model groups a key-value pair
type Model struct {
	Key   []byte
	Value []byte
}
