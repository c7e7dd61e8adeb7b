package gconf

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// NewQueryHandler returns a handler that responds with the configuration of
// given package. Query data is ignored.
func NewQueryHandler(pkg string) vest.QueryHandler {
	return queryHandler{pkg: pkg}
}

type queryHandler struct {
	pkg string
}

func (q queryHandler) Query(db vest.ReadOnlyKVStore, mod string, _ []byte) ([]vest.Model, error) {
	if mod != vest.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	key := Key(q.pkg)
	raw, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return []vest.Model{vest.Pair(key, raw)}, nil
}
