package store

import "github.com/vestnet/vest"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = vest.ReadOnlyKVStore
	SetDeleter       = vest.SetDeleter
	KVStore          = vest.KVStore
	Batch            = vest.Batch
	Iterator         = vest.Iterator
	CacheableKVStore = vest.CacheableKVStore
	KVCacheWrap      = vest.KVCacheWrap
	CommitKVStore    = vest.CommitKVStore
	CommitID         = vest.CommitID
	Model            = vest.Model
)

// Pair constructs a model from a key-value pair.
var Pair = vest.Pair
