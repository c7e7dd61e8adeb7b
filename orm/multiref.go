package orm

import (
	"bytes"

	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
)

// MultiRef is a sorted set of references, used by non unique indexes.
type MultiRef struct {
	Refs [][]byte
}

var _ Model = (*MultiRef)(nil)

// NewMultiRef creates a MultiRef with any number of initial references.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts this reference in the multiref, sorted by order.
// Returns an error if already there.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.findRef(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove removes this reference from the multiref.
// Returns an error if not there.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.findRef(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "ref not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// findRef returns the position of the reference and true if it is in the
// set, or the position where it should be inserted and false.
func (m *MultiRef) findRef(ref []byte) (int, bool) {
	for i, r := range m.Refs {
		switch bytes.Compare(ref, r) {
		case -1:
			return i, false
		case 0:
			return i, true
		}
	}
	return len(m.Refs), false
}

// Marshal serializes the reference set.
func (m *MultiRef) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

// Unmarshal loads the reference set.
func (m *MultiRef) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, m)
}

// Copy does a shallow copy of the slice of refs and creates a new MultiRef.
func (m *MultiRef) Copy() Model {
	refs := make([][]byte, len(m.Refs))
	copy(refs, m.Refs)
	return &MultiRef{Refs: refs}
}

// Validate just returns an error if empty.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
