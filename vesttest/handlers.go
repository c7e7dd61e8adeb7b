package vesttest

import "github.com/vestnet/vest"

// Handler is a mock implementation of the vest.Handler interface. Each
// method call is counted.
type Handler struct {
	checkCall   int
	CheckResult vest.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult vest.DeliverResult
	DeliverErr    error
}

var _ vest.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes a fixed key/value pair to the store on both check and
// deliver, then returns Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ vest.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &vest.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &vest.DeliverResult{}, nil
}

// PanicHandler panics on every call with Msg.
type PanicHandler struct {
	Msg string
}

var _ vest.Handler = PanicHandler{}

func (p PanicHandler) Check(vest.Context, vest.KVStore, vest.Tx) (*vest.CheckResult, error) {
	panic(p.Msg)
}

func (p PanicHandler) Deliver(vest.Context, vest.KVStore, vest.Tx) (*vest.DeliverResult, error) {
	panic(p.Msg)
}
