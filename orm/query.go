package orm

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// ConsumeIterator will read all remaining data into an array and release the
// iterator.
func ConsumeIterator(itr vest.Iterator) ([]vest.Model, error) {
	defer itr.Release()

	var res []vest.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, vest.Pair(key, value))
	}
}

func queryPrefix(db vest.ReadOnlyKVStore, prefix []byte) ([]vest.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into (start, end) to create an iterator.
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// The end is the shortest key greater than all keys with the prefix.
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return prefix, end[:i+1]
		}
	}
	// A prefix of only 0xFF bytes has no end.
	return prefix, nil
}
