package orm

import (
	"bytes"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// Index is a secondary index on the entities of a bucket.
type Index interface {
	vest.QueryHandler

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db vest.KVStore, prev Object, save Object) error

	// Keys returns all entity keys that were indexed under given value.
	Keys(db vest.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object. A nil key
// means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// MultiKeyIndexer calculates the secondary index keys for a given object.
type MultiKeyIndexer func(Object) ([][]byte, error)

// compactIndex stores all indexed entity keys as a set, serialized and
// stored under a single key. The value is one primary key (unique), or a
// sorted list of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  MultiKeyIndexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewMultiKeyIndex constructs an index with multi key indexer.
// unique enforces a unique constraint on the index.
// refKey calculates the absolute dbkey for a ref.
func NewMultiKeyIndex(name string, indexer MultiKeyIndexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(indexPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func asMultiKeyIndexer(indexer Indexer) MultiKeyIndexer {
	return func(obj Object) ([][]byte, error) {
		key, err := indexer(obj)
		switch {
		case err != nil:
			return nil, err
		case key == nil:
			return nil, nil
		}
		return [][]byte{key}, nil
	}
}

// indexKey is the full key we store in the db, including prefix.
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in the secondary
// index.
func (i compactIndex) Update(db vest.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		keys, err := i.index(save)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
		return nil
	case save == nil:
		keys, err := i.index(prev)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
		return nil
	default:
		return i.move(db, prev, save)
	}
}

func (i compactIndex) move(db vest.KVStore, prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}
	oldKeys, err := i.index(prev)
	if err != nil {
		return err
	}
	newKeys, err := i.index(save)
	if err != nil {
		return err
	}
	for _, key := range oldKeys {
		if !containsKey(newKeys, key) {
			if err := i.remove(db, key, prev.Key()); err != nil {
				return err
			}
		}
	}
	for _, key := range newKeys {
		if !containsKey(oldKeys, key) {
			if err := i.insert(db, key, save.Key()); err != nil {
				return err
			}
		}
	}
	return nil
}

func containsKey(keys [][]byte, key []byte) bool {
	for _, k := range keys {
		if bytes.Equal(k, key) {
			return true
		}
	}
	return false
}

func (i compactIndex) insert(db vest.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		return db.Set(dbkey, pk)
	}

	var refs MultiRef
	if cur != nil {
		if err := refs.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, bz)
}

func (i compactIndex) remove(db vest.KVStore, key []byte, pk []byte) error {
	dbkey := i.indexKey(key)
	cur, err := db.Get(dbkey)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s: cannot remove missing reference", i.name)
	}

	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrState, "index %s: reference does not match", i.name)
		}
		return db.Delete(dbkey)
	}

	var refs MultiRef
	if err := refs.Unmarshal(cur); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(dbkey)
	}
	bz, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(dbkey, bz)
}

// Keys returns a list of all entity keys that were indexed under given value.
func (i compactIndex) Keys(db vest.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	val, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(val); err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query handles queries from the QueryRouter. It returns the indexed
// entities, not the index content.
func (i compactIndex) Query(db vest.ReadOnlyKVStore, mod string, data []byte) ([]vest.Model, error) {
	var refs [][]byte
	switch mod {
	case vest.KeyQueryMod:
		keys, err := i.Keys(db, data)
		if err != nil {
			return nil, err
		}
		refs = keys
	case vest.PrefixQueryMod:
		entries, err := queryPrefix(db, i.indexKey(data))
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if i.unique {
				refs = append(refs, e.Value)
				continue
			}
			var mr MultiRef
			if err := mr.Unmarshal(e.Value); err != nil {
				return nil, err
			}
			refs = append(refs, mr.Refs...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	return i.loadRefs(db, refs)
}

func (i compactIndex) loadRefs(db vest.ReadOnlyKVStore, refs [][]byte) ([]vest.Model, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]vest.Model, len(refs))
	for j, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res[j] = vest.Pair(key, value)
	}
	return res, nil
}
