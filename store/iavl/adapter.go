// Package iavl provides a persistent, versioned commit store backed by a
// merkle tree. Every commit produces a new version with a root hash that is
// reported to tendermint as the application hash.
package iavl

import (
	"path/filepath"

	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/store"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store with a goleveldb backing in the given
// directory.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	path, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, path)
	return NewCommitStoreFromDB(db), nil
}

// NewMemCommitStore returns a commit store that keeps all data in memory.
// Useful for tests.
func NewMemCommitStore() *CommitStore {
	return NewCommitStoreFromDB(dbm.NewMemDB())
}

// NewCommitStoreFromDB returns a commit store using the given database.
func NewCommitStoreFromDB(db dbm.DB) *CommitStore {
	return &CommitStore{
		tree: iavl.NewMutableTree(db, DefaultCacheSize),
	}
}

// Get returns the value at last committed state. Returns nil iff key
// doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

// Commit the next version to disk, and returns info.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version. If there was a crash
// during the last commit, it is guaranteed to return a stable state, even if
// older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk.
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap wraps the working tree with a btree cache. Writing the cache
// modifies the working tree, which becomes persistent on Commit.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	adapter := treeAdapter{tree: s.tree}
	return store.NewBTreeCacheWrap(adapter, adapter.NewBatch(), nil)
}

// treeAdapter exposes the working state of the tree as a KVStore.
type treeAdapter struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = treeAdapter{}

func (a treeAdapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a treeAdapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a treeAdapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a treeAdapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a treeAdapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a treeAdapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, true), nil
}

func (a treeAdapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.iterate(start, end, false), nil
}

// iterate loads the whole range at once. The tree does not provide a cursor
// that can be suspended, and ranges read by handlers are small.
func (a treeAdapter) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(res)
}
