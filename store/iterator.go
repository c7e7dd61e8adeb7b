package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/vestnet/vest/errors"
)

// ascendBtree returns a snapshot of all cached items within the range in
// ascending order. Taking a snapshot keeps the iterator valid even if the
// btree is modified while iterating.
func ascendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var res []btree.Item
	collect := func(item btree.Item) bool {
		res = append(res, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return res
}

// descendBtree returns a snapshot of all cached items within the range in
// descending order. Start is inclusive and end is exclusive, as for the
// ascending iterator.
func descendBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var res []btree.Item
	collect := func(item btree.Item) bool {
		if start != nil && bytes.Compare(item.(keyer).Key(), start) < 0 {
			return false
		}
		res = append(res, item)
		return true
	}
	if end == nil {
		bt.Descend(collect)
	} else {
		bt.DescendLessOrEqual(bkey{end}, func(item btree.Item) bool {
			// End is exclusive.
			if bytes.Equal(item.(keyer).Key(), end) {
				return true
			}
			return collect(item)
		})
	}
	return res
}

// mergeIterator combines cached items with the parent iterator, taking into
// consideration overwrites and deletes.
type mergeIterator struct {
	items     []btree.Item
	parent    Iterator
	ascending bool

	// Head of the parent iterator.
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []btree.Item, parent Iterator, ascending bool) *mergeIterator {
	return &mergeIterator{
		items:     items,
		parent:    parent,
		ascending: ascending,
	}
}

func (m *mergeIterator) fetchParent() error {
	if m.pdone || m.pkey != nil {
		return nil
	}
	key, value, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.pdone = true
		return nil
	}
	if err != nil {
		return err
	}
	m.pkey, m.pvalue = key, value
	return nil
}

// before returns true if key a is to be read before key b.
func (m *mergeIterator) before(a, b []byte) bool {
	if m.ascending {
		return bytes.Compare(a, b) < 0
	}
	return bytes.Compare(a, b) > 0
}

func (m *mergeIterator) Next() ([]byte, []byte, error) {
	for {
		if err := m.fetchParent(); err != nil {
			return nil, nil, err
		}

		if len(m.items) == 0 {
			if m.pdone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value := m.pkey, m.pvalue
			m.pkey, m.pvalue = nil, nil
			return key, value, nil
		}

		item := m.items[0]
		ikey := item.(keyer).Key()
		if !m.pdone && m.before(m.pkey, ikey) {
			key, value := m.pkey, m.pvalue
			m.pkey, m.pvalue = nil, nil
			return key, value, nil
		}

		m.items = m.items[1:]
		// The cached item shadows the parent entry with the same key.
		if !m.pdone && bytes.Equal(m.pkey, ikey) {
			m.pkey, m.pvalue = nil, nil
		}
		switch t := item.(type) {
		case setItem:
			return t.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", t)
		}
	}
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.items = nil
}
