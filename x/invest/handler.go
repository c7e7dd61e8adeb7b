package invest

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/gconf"
	"github.com/vestnet/vest/orm"
	"github.com/vestnet/vest/x"
	"github.com/vestnet/vest/x/cash"
)

const (
	initializeProgramCost int64 = 500
	initializeAdminCost   int64 = 200
	createOpportunityCost int64 = 300
	depositCost           int64 = 200
	releaseFundsCost      int64 = 100
	distributeCost        int64 = 100
	withdrawForUseCost    int64 = 100
	closeOpportunityCost  int64 = 300
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r vest.Registry, auth x.Authenticator, control cash.Controller) {
	b := newBuckets()
	r.Handle(pathInitializeProgramMsg, InitializeProgramHandler{auth: auth, b: b})
	r.Handle(pathInitializeAdminMsg, InitializeAdminHandler{auth: auth, b: b})
	r.Handle(pathCreateOpportunityMsg, CreateOpportunityHandler{auth: auth, b: b})
	r.Handle(pathDepositMsg, DepositHandler{auth: auth, b: b, cash: control})
	r.Handle(pathReleaseFundsMsg, ReleaseFundsHandler{auth: auth, b: b, cash: control})
	r.Handle(pathDistributeReturnsMsg, DistributeReturnsHandler{auth: auth, b: b, cash: control})
	r.Handle(pathWithdrawForUseMsg, WithdrawForUseHandler{auth: auth, b: b, cash: control})
	r.Handle(pathCloseOpportunityMsg, CloseOpportunityHandler{auth: auth, b: b})
	r.Handle(pathUpdateConfigurationMsg, gconf.NewUpdateConfigurationHandler(confPkg, &Config{}, auth))
}

// RegisterQuery registers all buckets of this package and the program
// configuration.
func RegisterQuery(qr vest.QueryRouter) {
	b := newBuckets()
	qr.Register("/invest/config", gconf.NewQueryHandler(confPkg))
	b.pool.Register("invest/pool", qr)
	b.opportunities.Register("opportunities", qr)
	b.positions.Register("positions", qr)
	b.admins.Register("admins", qr)
}

type buckets struct {
	pool          orm.ModelBucket
	opportunities orm.ModelBucket
	positions     orm.ModelBucket
	admins        orm.ModelBucket
}

func newBuckets() buckets {
	return buckets{
		pool:          NewPoolBucket(),
		opportunities: NewOpportunityBucket(),
		positions:     NewPositionBucket(),
		admins:        NewAdminListBucket(),
	}
}

func (b buckets) loadPool(db vest.ReadOnlyKVStore) (*EscrowPool, error) {
	var p EscrowPool
	if err := b.pool.One(db, PoolAddress(), &p); err != nil {
		return nil, errors.Wrap(err, "escrow pool, program not initialized")
	}
	return &p, nil
}

func (b buckets) loadOpportunity(db vest.ReadOnlyKVStore, id string) (*Opportunity, error) {
	var o Opportunity
	if err := b.opportunities.One(db, OpportunityKey(id), &o); err != nil {
		return nil, errors.Wrapf(err, "opportunity %q", id)
	}
	return &o, nil
}

// admin returns the address of a signer allowed to manage opportunities.
// Admins are the members of the admin list and the pool release authority.
func (b buckets) admin(ctx vest.Context, db vest.ReadOnlyKVStore, auth x.Authenticator) (vest.Address, error) {
	pool, err := b.loadPool(db)
	if err != nil {
		return nil, err
	}
	candidates := []vest.Address{pool.ReleaseAuthority}

	var list AdminList
	switch err := b.admins.One(db, AdminListKey(), &list); {
	case err == nil:
		candidates = append(list.Admins, candidates...)
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "admin list")
	}

	signer, ok := x.AnySigner(ctx, auth, candidates)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "admin signature required")
	}
	return signer, nil
}

// poolFunds fails with ErrInsufficientFunds unless both the pool accounting
// and the pool wallet hold at least amount.
func (b buckets) poolFunds(db vest.ReadOnlyKVStore, control cash.Controller, pool *EscrowPool, amount uint64) error {
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	balance, err := control.Balance(db, PoolAddress(), conf.Ticker)
	if err != nil {
		return errors.Wrap(err, "pool balance")
	}
	if balance.Amount < amount {
		return errors.Wrapf(ErrInsufficientFunds, "pool wallet holds %d, requested %d", balance.Amount, amount)
	}
	if pool.TotalEscrow < amount {
		return errors.Wrapf(ErrInsufficientFunds, "pool escrow is %d, requested %d", pool.TotalEscrow, amount)
	}
	return nil
}

// InitializeProgramHandler creates the configuration and the escrow pool.
type InitializeProgramHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vest.Handler = InitializeProgramHandler{}

func (h InitializeProgramHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: initializeProgramCost}, nil
}

func (h InitializeProgramHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Save(db, confPkg, msg.Config()); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	pool := &EscrowPool{ReleaseAuthority: msg.Admin}
	if err := h.b.pool.Create(db, PoolAddress(), pool); err != nil {
		return nil, errors.Wrap(err, "create pool")
	}
	vest.GetLogger(ctx).Info("program initialized",
		"admin", msg.Admin,
		"min_deposit", msg.MinDeposit,
		"max_deposit", msg.MaxDeposit,
		"fee_bps", msg.FeeBps)
	return &vest.DeliverResult{Data: PoolAddress()}, nil
}

func (h InitializeProgramHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*InitializeProgramMsg, error) {
	var msg InitializeProgramMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if len(h.auth.GetConditions(ctx)) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "payer signature required")
	}
	switch exists, err := gconf.Exists(db, confPkg); {
	case err != nil:
		return nil, err
	case exists:
		return nil, errors.Wrap(errors.ErrDuplicate, "program already initialized")
	}
	return &msg, nil
}

// InitializeAdminHandler creates the admin list. It must be signed by the
// configuration owner.
type InitializeAdminHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vest.Handler = InitializeAdminHandler{}

func (h InitializeAdminHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: initializeAdminCost}, nil
}

func (h InitializeAdminHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.b.admins.Create(db, AdminListKey(), &AdminList{Admins: msg.Admins}); err != nil {
		return nil, err
	}
	vest.GetLogger(ctx).Info("admins initialized", "count", len(msg.Admins))
	return &vest.DeliverResult{Data: AdminListKey()}, nil
}

func (h InitializeAdminHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*InitializeAdminMsg, error) {
	var msg InitializeAdminMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	switch err := h.b.admins.Has(db, AdminListKey()); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrDuplicate, "admin list already exists")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return &msg, nil
}

// CreateOpportunityHandler registers new opportunities.
type CreateOpportunityHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vest.Handler = CreateOpportunityHandler{}

func (h CreateOpportunityHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: createOpportunityCost}, nil
}

func (h CreateOpportunityHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, admin, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := vest.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}
	opp := &Opportunity{
		ID:               msg.ID,
		Name:             msg.Name,
		Admin:            admin,
		TargetAmount:     msg.TargetAmount,
		MinDeposit:       msg.MinDeposit,
		ExpectedYieldBps: msg.ExpectedYieldBps,
		DurationDays:     msg.DurationDays,
		Status:           OpportunityActive,
		CreatedAt:        now,
	}
	key := OpportunityKey(msg.ID)
	if err := h.b.opportunities.Create(db, key, opp); err != nil {
		return nil, err
	}
	vest.GetLogger(ctx).Info("opportunity created", "id", msg.ID, "admin", admin, "target", msg.TargetAmount)
	return &vest.DeliverResult{Data: key}, nil
}

func (h CreateOpportunityHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*CreateOpportunityMsg, vest.Address, error) {
	var msg CreateOpportunityMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	admin, err := h.b.admin(ctx, db, h.auth)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if msg.MinDeposit > conf.MaxDeposit {
		return nil, nil, errors.Wrapf(errors.ErrInput, "minimum deposit %d above maximum %d", msg.MinDeposit, conf.MaxDeposit)
	}
	switch err := h.b.opportunities.Has(db, OpportunityKey(msg.ID)); {
	case err == nil:
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "opportunity %q already exists", msg.ID)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, err
	}
	// Pool wide positions must not become part of an opportunity.
	var used []*Position
	if _, err := h.b.positions.ByIndex(db, "target", []byte(msg.ID), &used); err != nil {
		return nil, nil, errors.Wrap(err, "positions by target")
	}
	if len(used) != 0 {
		return nil, nil, errors.Wrapf(errors.ErrDuplicate, "target %q already used by %d deposits", msg.ID, len(used))
	}
	return &msg, admin, nil
}

// DepositHandler moves funds into the pool and records a position.
type DepositHandler struct {
	auth x.Authenticator
	b    buckets
	cash cash.Controller
}

var _ vest.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: depositCost}, nil
}

// Deliver transfers the deposit into the pool wallet, creates the position
// and updates pool and opportunity totals. Any failure leaves no effect once
// the savepoint is discarded.
func (h DepositHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, conf, opp, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := vest.BlockUnixTime(ctx)
	if err != nil {
		return nil, err
	}

	amount := coin.NewCoin(msg.Amount, conf.Ticker)
	if err := h.cash.Transfer(ctx, db, msg.Depositor, PoolAddress(), cash.SignerAuthority(ctx, h.auth), amount); err != nil {
		return nil, err
	}

	key := PositionKey(msg.Depositor, msg.TargetID)
	pos := &Position{
		Depositor:      msg.Depositor,
		TargetID:       msg.TargetID,
		Principal:      msg.Amount,
		CurrentValue:   msg.Amount,
		DepositedAt:    now,
		ExpectedReturn: msg.ExpectedReturn,
		Status:         PositionActive,
	}
	if err := h.b.positions.Create(db, key, pos); err != nil {
		return nil, err
	}

	pool, err := h.b.loadPool(db)
	if err != nil {
		return nil, err
	}
	if err := pool.Credit(msg.Amount); err != nil {
		return nil, err
	}
	if err := h.b.pool.Put(db, PoolAddress(), pool); err != nil {
		return nil, errors.Wrap(err, "save pool")
	}

	log := vest.GetLogger(ctx)
	if opp != nil {
		if err := opp.Raise(msg.Amount); err != nil {
			return nil, err
		}
		if err := h.b.opportunities.Put(db, OpportunityKey(opp.ID), opp); err != nil {
			return nil, errors.Wrap(err, "save opportunity")
		}
		log = log.With("opportunity", opp.ID, "raised", opp.TotalRaised, "status", opp.Status)
	}
	log.Info("deposit",
		"depositor", msg.Depositor,
		"target", msg.TargetID,
		"amount", msg.Amount,
		"total_escrow", pool.TotalEscrow)
	return &vest.DeliverResult{Data: key}, nil
}

// validate checks the deposit bounds in order: minimum, maximum, expected
// return and finally the opportunity status. The returned opportunity is nil
// for pool wide deposits.
func (h DepositHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*DepositMsg, *Config, *Opportunity, error) {
	var msg DepositMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Depositor) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature required")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}

	var opp *Opportunity
	switch o, err := h.b.loadOpportunity(db, msg.TargetID); {
	case err == nil:
		opp = o
	case !errors.ErrNotFound.Is(err):
		return nil, nil, nil, err
	}

	min := conf.MinDeposit
	if opp != nil {
		min = opp.MinDeposit
	}
	if msg.Amount < min {
		return nil, nil, nil, errors.Wrapf(ErrAmountTooSmall, "%d below %d", msg.Amount, min)
	}
	if msg.Amount > conf.MaxDeposit {
		return nil, nil, nil, errors.Wrapf(ErrAmountTooLarge, "%d above %d", msg.Amount, conf.MaxDeposit)
	}
	if msg.ExpectedReturn > maxReturnPct {
		return nil, nil, nil, errors.Wrapf(ErrInvalidReturn, "%d above %d", msg.ExpectedReturn, maxReturnPct)
	}
	if opp != nil && opp.Status != OpportunityActive {
		return nil, nil, nil, errors.Wrapf(ErrOpportunityNotActive, "opportunity %q is %s", opp.ID, opp.Status)
	}

	switch err := h.b.positions.Has(db, PositionKey(msg.Depositor, msg.TargetID)); {
	case err == nil:
		return nil, nil, nil, errors.Wrapf(errors.ErrDuplicate, "position in %q already exists", msg.TargetID)
	case !errors.ErrNotFound.Is(err):
		return nil, nil, nil, err
	}
	return &msg, conf, opp, nil
}

// CloseOpportunityHandler moves an opportunity into a final state together
// with all its active positions.
type CloseOpportunityHandler struct {
	auth x.Authenticator
	b    buckets
}

var _ vest.Handler = CloseOpportunityHandler{}

func (h CloseOpportunityHandler) Check(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vest.CheckResult{GasAllocated: closeOpportunityCost}, nil
}

func (h CloseOpportunityHandler) Deliver(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*vest.DeliverResult, error) {
	msg, opp, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	status := PositionCompleted
	if msg.Outcome == OpportunityCancelled {
		status = PositionCancelled
	}
	var positions []*Position
	keys, err := h.b.positions.ByIndex(db, "target", []byte(opp.ID), &positions)
	if err != nil {
		return nil, errors.Wrap(err, "positions by target")
	}
	var closed uint64
	for i, p := range positions {
		if p.Status != PositionActive {
			continue
		}
		p.Status = status
		if err := h.b.positions.Put(db, keys[i], p); err != nil {
			return nil, errors.Wrap(err, "save position")
		}
		closed++
	}

	pool, err := h.b.loadPool(db)
	if err != nil {
		return nil, err
	}
	if err := pool.ClosePositions(closed); err != nil {
		return nil, err
	}
	if err := h.b.pool.Put(db, PoolAddress(), pool); err != nil {
		return nil, errors.Wrap(err, "save pool")
	}

	opp.Status = msg.Outcome
	if err := h.b.opportunities.Put(db, OpportunityKey(opp.ID), opp); err != nil {
		return nil, errors.Wrap(err, "save opportunity")
	}
	vest.GetLogger(ctx).Info("opportunity closed", "id", opp.ID, "status", opp.Status, "positions", closed)
	return &vest.DeliverResult{Data: OpportunityKey(opp.ID)}, nil
}

func (h CloseOpportunityHandler) validate(ctx vest.Context, db vest.KVStore, tx vest.Tx) (*CloseOpportunityMsg, *Opportunity, error) {
	var msg CloseOpportunityMsg
	if err := vest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.b.admin(ctx, db, h.auth); err != nil {
		return nil, nil, err
	}
	opp, err := h.b.loadOpportunity(db, msg.OpportunityID)
	if err != nil {
		return nil, nil, err
	}
	if msg.Outcome == OpportunityCompleted && opp.Status == OpportunityActive {
		return nil, nil, errors.Wrapf(ErrOpportunityNotFunded, "opportunity %q", opp.ID)
	}
	if !opp.Status.CanTransition(msg.Outcome) {
		return nil, nil, errors.Wrapf(errors.ErrState, "opportunity %q cannot move from %s to %s", opp.ID, opp.Status, msg.Outcome)
	}
	return &msg, opp, nil
}
