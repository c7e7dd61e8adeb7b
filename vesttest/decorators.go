package vesttest

import "github.com/vestnet/vest"

// Decorator is a mock implementation of the vest.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ vest.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx, next vest.Checker) (*vest.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx, next vest.Deliverer) (*vest.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

// Decorate returns a handler that passes every call through given decorator.
func Decorate(h vest.Handler, d vest.Decorator) vest.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn vest.Handler
	dc vest.Decorator
}

func (d *decoratedHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
