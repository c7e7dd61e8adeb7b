package store

import (
	"bytes"
	"testing"

	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/vesttest/assert"
)

// TestSuite provides many methods that can be called in package-specific
// test code. We just customize the store being tested (pass in constructor),
// the rest of the logic is generic to the CacheableKVStore interface.
//
// This removes duplication between btree_test.go and iavl/adapter_test.go,
// but can be used for any implementation of CacheableKVStore.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

// NewTestSuite returns a suite running against stores created by the given
// constructor.
func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// GetSet does basic sanity checks on our cache.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("escrow"), []byte("pool")
	s.AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, base.Set(k, v))
	s.AssertGetHas(t, base, k, v, true)

	// A cache layer sees the base data.
	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, k, v, true)

	// Writing more data is only visible in the cache.
	k2, v2 := []byte("position"), []byte("alice")
	assert.Nil(t, cache.Set(k2, v2))
	s.AssertGetHas(t, cache, k2, v2, true)
	s.AssertGetHas(t, base, k2, nil, false)

	// We can write the cache to the base layer.
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k2, v2, true)

	// A discarded cache leaves no trace.
	k3, v3 := []byte("opportunity"), []byte("farm")
	c2 := base.CacheWrap()
	assert.Nil(t, c2.Set(k3, v3))
	assert.Nil(t, c2.Delete(k))
	c2.Discard()
	s.AssertGetHas(t, base, k, v, true)
	s.AssertGetHas(t, base, k3, nil, false)

	// A delete is propagated on write.
	c3 := base.CacheWrap()
	assert.Nil(t, c3.Delete(k))
	s.AssertGetHas(t, c3, k, nil, false)
	assert.Nil(t, c3.Write())
	s.AssertGetHas(t, base, k, nil, false)
	s.AssertGetHas(t, base, k2, v2, true)
}

// CacheConflicts checks that we can handle overwriting values and deleting
// underlying values in nested caches.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := func(i int) []byte { return []byte{'k', byte(i)} }
	v := func(i int) []byte { return []byte{'v', byte(i)} }

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model // Key is what we query, Value is what we expect
		childQueries  []Model // Key is what we query, Value is what we expect
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(k(1), v(1)), SetOp(k(2), v(2))},
			childOps:      []Op{SetOp(k(1), v(11)), SetOp(k(3), v(7)), DelOp(k(2))},
			parentQueries: []Model{Pair(k(1), v(1)), Pair(k(2), v(2)), Pair(k(3), nil)},
			childQueries:  []Model{Pair(k(1), v(11)), Pair(k(2), nil), Pair(k(3), v(7))},
		},
		"delete and re-add": {
			parentOps:     []Op{SetOp(k(4), v(4))},
			childOps:      []Op{DelOp(k(4)), SetOp(k(4), v(44))},
			parentQueries: []Model{Pair(k(4), v(4))},
			childQueries:  []Model{Pair(k(4), v(44))},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			// Writing the child makes the parent look like the child.
			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				s.AssertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// Iterator checks that the iteration over a cache merges the cached data
// with the parent in both directions and honors the range boundaries.
func (s *TestSuite) Iterator(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	for _, key := range []string{"a", "c", "e", "g"} {
		assert.Nil(t, base.Set([]byte(key), []byte("base-"+key)))
	}
	cache := base.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("cache-b")))
	assert.Nil(t, cache.Set([]byte("c"), []byte("cache-c")))
	assert.Nil(t, cache.Delete([]byte("e")))
	assert.Nil(t, cache.Set([]byte("h"), []byte("cache-h")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full ascending": {
			want: []Model{
				Pair([]byte("a"), []byte("base-a")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("h"), []byte("cache-h")),
			},
		},
		"bounded ascending, end exclusive": {
			start: []byte("b"),
			end:   []byte("g"),
			want: []Model{
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("c"), []byte("cache-c")),
			},
		},
		"full descending": {
			reverse: true,
			want: []Model{
				Pair([]byte("h"), []byte("cache-h")),
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("b"), []byte("cache-b")),
				Pair([]byte("a"), []byte("base-a")),
			},
		},
		"bounded descending, end exclusive": {
			start:   []byte("b"),
			end:     []byte("h"),
			reverse: true,
			want: []Model{
				Pair([]byte("g"), []byte("base-g")),
				Pair([]byte("c"), []byte("cache-c")),
				Pair([]byte("b"), []byte("cache-b")),
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Release()

			got := readAll(t, it)
			if len(got) != len(tc.want) {
				t.Fatalf("want %d entries, got %d: %q", len(tc.want), len(got), got)
			}
			for i, m := range tc.want {
				if !bytes.Equal(m.Key, got[i].Key) || !bytes.Equal(m.Value, got[i].Value) {
					t.Fatalf("entry %d: want %q=%q, got %q=%q", i, m.Key, m.Value, got[i].Key, got[i].Value)
				}
			}
		})
	}
}

// AssertGetHas ensures the store returns the expected value for the key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("%q: want %q, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

func readAll(t testing.TB, it Iterator) []Model {
	t.Helper()
	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		assert.Nil(t, err)
		res = append(res, Pair(key, value))
	}
}
