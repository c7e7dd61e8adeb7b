package sigs

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/vesttest"
)

// stdTx carries a fixed payload that is used as the sign bytes.
type stdTx struct {
	vesttest.Tx
	payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*stdTx)(nil)
var _ vest.Tx = (*stdTx)(nil)

func newStdTx(payload []byte) *stdTx {
	return &stdTx{
		Tx:      vesttest.Tx{Msg: &vesttest.Msg{RoutePath: "test/sigs"}},
		payload: payload,
	}
}

func (tx *stdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *stdTx) GetSignBytes() ([]byte, error) {
	return tx.payload, nil
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []vest.Condition
}

var _ vest.Handler = (*sigCheckHandler)(nil)

func (s *sigCheckHandler) Check(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &vest.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &vest.DeliverResult{}, nil
}
