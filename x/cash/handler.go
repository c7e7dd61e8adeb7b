package cash

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/gconf"
	"github.com/vestnet/vest/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r vest.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
	r.Handle(pathFreezeMsg, NewFreezeHandler(auth, control))
	r.Handle(pathUpdateConfigurationMsg, NewConfigHandler(auth))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr vest.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler will handle sending coins
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ vest.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h SendHandler) Check(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	var msg SendMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	return vest.NewCheck(sendTxCost, ""), nil
}

// Deliver moves the tokens from source to receiver if
// all preconditions are met
func (h SendHandler) Deliver(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	var msg SendMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	authority := SignerAuthority(ctx, h.auth)
	if err := h.control.Transfer(ctx, store, msg.Src, msg.Dest, authority, msg.Amount); err != nil {
		return nil, err
	}
	return &vest.DeliverResult{}, nil
}

// FreezeHandler lets the issuer freeze and unfreeze wallets.
type FreezeHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ vest.Handler = FreezeHandler{}

// NewFreezeHandler creates a handler for FreezeMsg
func NewFreezeHandler(auth x.Authenticator, control Controller) FreezeHandler {
	return FreezeHandler{
		auth:    auth,
		control: control,
	}
}

func (h FreezeHandler) Check(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, err := h.validate(ctx, store, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{}, nil
}

func (h FreezeHandler) Deliver(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, err := h.validate(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.SetFrozen(store, msg.Owner, msg.Ticker, msg.Frozen); err != nil {
		return nil, err
	}
	vest.GetLogger(ctx).Info("wallet freeze", "owner", msg.Owner, "ticker", msg.Ticker, "frozen", msg.Frozen)
	return &vest.DeliverResult{}, nil
}

func (h FreezeHandler) validate(ctx vest.Context, store vest.KVStore, tx vest.Tx) (*FreezeMsg, error) {
	var msg FreezeMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(store)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "issuer signature missing")
	}
	return &msg, nil
}

// NewConfigHandler returns a handler for UpdateConfigurationMsg.
func NewConfigHandler(auth x.Authenticator) vest.Handler {
	return gconf.NewUpdateConfigurationHandler(confPkg, &Configuration{}, auth)
}
