package utils

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
)

// Recovery is a decorator to recover from panics in transactions,
// so we can log them as errors
type Recovery struct{}

var _ vest.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx vest.Context, store vest.KVStore, tx vest.Tx, next vest.Checker) (_ *vest.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx vest.Context, store vest.KVStore, tx vest.Tx, next vest.Deliverer) (_ *vest.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
