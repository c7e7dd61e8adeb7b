package orm

import (
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
)

// account is a minimal model used by the tests of this package.
type account struct {
	Owner   []byte
	Balance uint64
}

var _ Model = (*account)(nil)

func (a *account) Marshal() ([]byte, error) { return codec.Marshal(a) }

func (a *account) Unmarshal(bz []byte) error { return codec.Unmarshal(bz, a) }

func (a *account) Copy() Model {
	cpy := *a
	cpy.Owner = append([]byte(nil), a.Owner...)
	return &cpy
}

func (a *account) Validate() error {
	if len(a.Owner) == 0 {
		return errors.Field("Owner", errors.ErrEmpty, "required")
	}
	return nil
}

func accountOwner(obj Object) ([]byte, error) {
	a, ok := obj.Value().(*account)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return a.Owner, nil
}
