package orm

import (
	"github.com/vestnet/vest"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	vest.Persistent
	// Validate returns error if the model is not in a valid state to save
	// to the db (eg. field missing, out of range, ...)
	Validate() error
	// Copy returns a deep copy of the model.
	Copy() Model
}

// Object is what is stored in the bucket. Key is joined with the prefix to
// set the full key, Value is the data stored.
type Object interface {
	Keyed
	Validate() error
	Value() Model
	Clone() Object
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Reader defines an interface that allows reading objects from the db.
type Reader interface {
	Get(db vest.ReadOnlyKVStore, key []byte) (Object, error)
}
