package invest

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/x"
	"github.com/vestnet/vest/x/cash"
)

// escrowAuthority is the capability to spend from the pool wallet. It can
// only be constructed inside this package.
type escrowAuthority struct{}

var _ cash.Authority = escrowAuthority{}

func (escrowAuthority) CanSpend(owner vest.Address) bool {
	return owner.Equals(PoolAddress())
}

// payOut moves amount from the pool wallet to dst and debits the pool.
func (b buckets) payOut(ctx vest.Context, db vest.KVStore, control cash.Controller, pool *EscrowPool, dst vest.Address, amount uint64) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if err := control.Transfer(ctx, db, PoolAddress(), dst, escrowAuthority{}, coin.NewCoin(amount, conf.Ticker)); err != nil {
		return err
	}
	if err := pool.Debit(amount); err != nil {
		return err
	}
	if err := b.pool.Put(db, PoolAddress(), pool); err != nil {
		return errors.Wrap(err, "save pool")
	}
	return nil
}

// ReleaseFundsHandler releases pool funds. Only the release authority can
// use it.
type ReleaseFundsHandler struct {
	auth x.Authenticator
	b    buckets
	cash cash.Controller
}

var _ vest.Handler = ReleaseFundsHandler{}

func (h ReleaseFundsHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: releaseFundsCost}, nil
}

func (h ReleaseFundsHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, pool, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.payOut(ctx, db, h.cash, pool, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	vest.GetLogger(ctx).Info("funds released",
		"target", msg.TargetID,
		"destination", msg.Destination,
		"amount", msg.Amount,
		"total_escrow", pool.TotalEscrow)
	return &vest.DeliverResult{}, nil
}

func (h ReleaseFundsHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*ReleaseFundsMsg, *EscrowPool, error) {
	var msg ReleaseFundsMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	pool, err := h.b.loadPool(db)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, pool.ReleaseAuthority) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "release authority signature required")
	}
	if err := h.b.poolFunds(db, h.cash, pool, msg.Amount); err != nil {
		return nil, nil, err
	}
	return &msg, pool, nil
}

// DistributeReturnsHandler pays returns to a position holder.
type DistributeReturnsHandler struct {
	auth x.Authenticator
	b    buckets
	cash cash.Controller
}

var _ vest.Handler = DistributeReturnsHandler{}

func (h DistributeReturnsHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: distributeCost}, nil
}

func (h DistributeReturnsHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, pool, pos, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.payOut(ctx, db, h.cash, pool, msg.Depositor, msg.Amount); err != nil {
		return nil, err
	}
	if err := pos.Distribute(msg.Amount); err != nil {
		return nil, err
	}
	key := PositionKey(msg.Depositor, msg.TargetID)
	if err := h.b.positions.Put(db, key, pos); err != nil {
		return nil, errors.Wrap(err, "save position")
	}
	vest.GetLogger(ctx).Info("returns distributed",
		"depositor", msg.Depositor,
		"target", msg.TargetID,
		"amount", msg.Amount,
		"current_value", pos.CurrentValue,
		"total_escrow", pool.TotalEscrow)
	return &vest.DeliverResult{Data: key}, nil
}

func (h DistributeReturnsHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*DistributeReturnsMsg, *EscrowPool, *Position, error) {
	var msg DistributeReturnsMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.admin(ctx, db, h.auth); err != nil {
		return nil, nil, nil, err
	}
	var pos Position
	if err := h.b.positions.One(db, PositionKey(msg.Depositor, msg.TargetID), &pos); err != nil {
		return nil, nil, nil, errors.Wrap(err, "position")
	}
	if pos.Status == PositionCancelled {
		return nil, nil, nil, errors.Wrap(errors.ErrState, "position cancelled")
	}
	pool, err := h.b.loadPool(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := h.b.poolFunds(db, h.cash, pool, msg.Amount); err != nil {
		return nil, nil, nil, err
	}
	return &msg, pool, &pos, nil
}

// WithdrawForUseHandler spends funds raised by a funded opportunity.
type WithdrawForUseHandler struct {
	auth x.Authenticator
	b    buckets
	cash cash.Controller
}

var _ vest.Handler = WithdrawForUseHandler{}

func (h WithdrawForUseHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: withdrawForUseCost}, nil
}

func (h WithdrawForUseHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := w.opp.Withdraw(w.msg.Amount); err != nil {
		return nil, err
	}
	if err := h.b.payOut(ctx, db, h.cash, w.pool, w.dst, w.msg.Amount); err != nil {
		return nil, err
	}
	key := OpportunityKey(w.opp.ID)
	if err := h.b.opportunities.Put(db, key, w.opp); err != nil {
		return nil, errors.Wrap(err, "save opportunity")
	}
	vest.GetLogger(ctx).Info("funds withdrawn for use",
		"opportunity", w.opp.ID,
		"destination", w.dst,
		"amount", w.msg.Amount,
		"withdrawn", w.opp.TotalWithdrawn,
		"total_escrow", w.pool.TotalEscrow)
	return &vest.DeliverResult{Data: key}, nil
}

type withdrawal struct {
	msg  *WithdrawForUseMsg
	opp  *Opportunity
	pool *EscrowPool
	dst  vest.Address
}

func (h WithdrawForUseHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*withdrawal, error) {
	var msg WithdrawForUseMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	admin, err := h.b.admin(ctx, db, h.auth)
	if err != nil {
		return nil, err
	}
	opp, err := h.b.loadOpportunity(db, msg.OpportunityID)
	if err != nil {
		return nil, err
	}
	if opp.Status != OpportunityFunded {
		return nil, errors.Wrapf(ErrOpportunityNotFunded, "opportunity %q is %s", opp.ID, opp.Status)
	}
	if msg.Amount > opp.Available() {
		return nil, errors.Wrapf(ErrInsufficientFunds, "opportunity %q has %d available, requested %d", opp.ID, opp.Available(), msg.Amount)
	}
	pool, err := h.b.loadPool(db)
	if err != nil {
		return nil, err
	}
	if err := h.b.poolFunds(db, h.cash, pool, msg.Amount); err != nil {
		return nil, err
	}
	dst := msg.Destination
	if len(dst) == 0 {
		dst = admin
	}
	return &withdrawal{msg: &msg, opp: opp, pool: pool, dst: dst}, nil
}
