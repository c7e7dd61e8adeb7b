package orm

import (
	"reflect"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db vest.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists. ErrNotFound is
	// returned otherwise.
	Has(db vest.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all models that were indexed under given key. Result
	// is loaded into given destination that must be a pointer to a slice
	// of model pointers. Keys of all loaded models are returned.
	ByIndex(db vest.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error)

	// Put saves given model in the database.
	Put(db vest.KVStore, key []byte, m Model) error

	// Create saves given model in the database. It fails with ErrDuplicate
	// if an entity with the same key already exists.
	Create(db vest.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db vest.KVStore, key []byte) error

	// Register registers this bucket and all its indexes in the query
	// router.
	Register(name string, r vest.QueryRouter)
}

// NewModelBucket returns a ModelBucket instance.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, m)
	mb := &modelBucket{
		b:     b,
		model: reflect.TypeOf(m),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) Register(name string, r vest.QueryRouter) {
	mb.b.Register(name, r)
}

func (mb *modelBucket) One(db vest.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return assign(dest, obj.Value())
}

func assign(dest Model, res Model) error {
	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db vest.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) ByIndex(db vest.ReadOnlyKVStore, indexName string, key []byte, dest interface{}) ([][]byte, error) {
	objs, err := mb.b.GetIndexed(db, indexName, key)
	if err != nil {
		return nil, err
	}

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	if slice.Elem().Type().Elem() != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a slice of %s, got %T", mb.model, dest)
	}

	keys := make([][]byte, 0, len(objs))
	values := reflect.MakeSlice(slice.Elem().Type(), 0, len(objs))
	for _, obj := range objs {
		keys = append(keys, obj.Key())
		values = reflect.Append(values, reflect.ValueOf(obj.Value()))
	}
	slice.Elem().Set(values)
	return keys, nil
}

func (mb *modelBucket) Put(db vest.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.b.Name())
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	if err := mb.b.Save(db, NewSimpleObj(key, m)); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Create(db vest.KVStore, key []byte, m Model) error {
	switch err := mb.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "%s %X already exists", mb.b.Name(), key)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Delete(db vest.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return mb.b.Delete(db, key)
}
