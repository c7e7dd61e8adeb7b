package app

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
)

// ResultSet is the encoding of query results. Keys and values of a query
// response are each carried in their own ResultSet of equal length.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

// Marshal serializes the result set.
func (r *ResultSet) Marshal() ([]byte, error) {
	return codec.Marshal(r)
}

// Unmarshal restores the result set from its binary form.
func (r *ResultSet) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []vest.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []vest.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]vest.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrState, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]vest.Model, len(kref))
	for i := range mods {
		mods[i] = vest.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o vest.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
