package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vestnet/vest/errors"
)

func memStoreConstructor() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestMemStoreGetSet(t *testing.T) {
	NewTestSuite(memStoreConstructor).GetSet(t)
}

func TestMemStoreCacheConflicts(t *testing.T) {
	NewTestSuite(memStoreConstructor).CacheConflicts(t)
}

func TestMemStoreIterator(t *testing.T) {
	NewTestSuite(memStoreConstructor).Iterator(t)
}

func TestNestedCacheDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("pool"), []byte("100")))

	outer := base.CacheWrap()
	require.NoError(t, outer.Set([]byte("pool"), []byte("150")))

	inner := outer.CacheWrap()
	require.NoError(t, inner.Set([]byte("pool"), []byte("0")))
	require.NoError(t, inner.Set([]byte("position"), []byte("x")))
	inner.Discard()

	val, err := outer.Get([]byte("pool"))
	require.NoError(t, err)
	assert.Equal(t, []byte("150"), val)
	has, err := outer.Has([]byte("position"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, outer.Write())
	val, err = base.Get([]byte("pool"))
	require.NoError(t, err)
	assert.Equal(t, []byte("150"), val)
}

func TestNilKeyRejected(t *testing.T) {
	db := MemStore()
	assert.True(t, errors.ErrDatabase.Is(db.Set(nil, []byte("x"))))
	assert.True(t, errors.ErrDatabase.Is(db.Delete(nil)))
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]Model{Pair([]byte("a"), []byte("1"))})
	key, value, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), key)
	assert.Equal(t, []byte("1"), value)

	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
	it.Release()
}

func TestNonAtomicBatchOps(t *testing.T) {
	db := MemStore()
	b := NewNonAtomicBatch(db)
	require.NoError(t, b.Set([]byte("a"), []byte("1")))
	require.NoError(t, b.Delete([]byte("b")))
	assert.Len(t, b.ShowOps(), 2)

	has, err := db.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has, "batch must not write before Write")

	require.NoError(t, b.Write())
	assert.Len(t, b.ShowOps(), 0)
	has, err = db.Has([]byte("a"))
	require.NoError(t, err)
	assert.True(t, has)
}
