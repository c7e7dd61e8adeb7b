package utils

import (
	"github.com/tendermint/tendermint/libs/common"
	"github.com/vestnet/vest"
)

// ActionTagger will inspect the message being executed and
// add a tag `action = msg.Path()`, so clients have a standard way to
// search and subscribe to eg. deposits.
type ActionTagger struct{}

var _ vest.Decorator = ActionTagger{}

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx, next vest.Checker) (*vest.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx, next vest.Deliverer) (*vest.DeliverResult, error) {
	// if we error in reporting, let's do so early before dispatching
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(msg.Path()),
	})
	return res, nil
}
