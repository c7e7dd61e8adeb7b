package invest

import (
	"fmt"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/orm"
)

const (
	maxIDLength     = 50
	maxNameLength   = 100
	maxAdmins       = 10
	maxYieldBps     = 10000
	maxReturnPct    = 100
	poolBucketName  = "pool"
	opportBucket    = "opport"
	positionBucket  = "position"
	adminListBucket = "admins"
)

// EscrowPool aggregates everything held in the pool wallet.
type EscrowPool struct {
	TotalEscrow   uint64 `json:"total_escrow"`
	OpenPositions uint64 `json:"open_positions"`
	// ReleaseAuthority is the only identity allowed to release funds.
	ReleaseAuthority vest.Address `json:"release_authority"`
}

var _ orm.Model = (*EscrowPool)(nil)

func (p *EscrowPool) Marshal() ([]byte, error) {
	return codec.Marshal(p)
}

func (p *EscrowPool) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, p)
}

func (p *EscrowPool) Validate() error {
	return errors.AppendField(nil, "ReleaseAuthority", p.ReleaseAuthority.Validate())
}

func (p *EscrowPool) Copy() orm.Model {
	cpy := *p
	cpy.ReleaseAuthority = append(vest.Address(nil), p.ReleaseAuthority...)
	return &cpy
}

// Credit accounts a new deposit of given amount.
func (p *EscrowPool) Credit(amount uint64) error {
	total, err := coin.AddUint64(p.TotalEscrow, amount)
	if err != nil {
		return errors.Wrap(err, "total escrow")
	}
	open, err := coin.AddUint64(p.OpenPositions, 1)
	if err != nil {
		return errors.Wrap(err, "open positions")
	}
	p.TotalEscrow = total
	p.OpenPositions = open
	return nil
}

// Debit accounts funds leaving the pool.
func (p *EscrowPool) Debit(amount uint64) error {
	total, err := coin.SubUint64(p.TotalEscrow, amount)
	if err != nil {
		return errors.Wrap(err, "total escrow")
	}
	p.TotalEscrow = total
	return nil
}

// ClosePositions decrements the number of open positions by n.
func (p *EscrowPool) ClosePositions(n uint64) error {
	open, err := coin.SubUint64(p.OpenPositions, n)
	if err != nil {
		return errors.Wrap(err, "open positions")
	}
	p.OpenPositions = open
	return nil
}

// OpportunityStatus is the lifecycle state of an opportunity.
type OpportunityStatus int32

const (
	OpportunityActive OpportunityStatus = iota
	OpportunityFunded
	OpportunityCompleted
	OpportunityCancelled
)

var opportunityStatusNames = map[OpportunityStatus]string{
	OpportunityActive:    "active",
	OpportunityFunded:    "funded",
	OpportunityCompleted: "completed",
	OpportunityCancelled: "cancelled",
}

func (s OpportunityStatus) String() string {
	if n, ok := opportunityStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s OpportunityStatus) Validate() error {
	if _, ok := opportunityStatusNames[s]; !ok {
		return errors.Wrapf(errors.ErrInput, "status %d", s)
	}
	return nil
}

// CanTransition returns true if an opportunity can move from s to next.
// Transitions are monotonic: Active, Funded and then either Completed or
// Cancelled.
func (s OpportunityStatus) CanTransition(next OpportunityStatus) bool {
	switch s {
	case OpportunityActive:
		return next == OpportunityFunded || next == OpportunityCancelled
	case OpportunityFunded:
		return next == OpportunityCompleted || next == OpportunityCancelled
	}
	return false
}

// Opportunity is an investment target collecting deposits until its target
// amount is raised.
type Opportunity struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Admin            vest.Address      `json:"admin"`
	TargetAmount     uint64            `json:"target_amount"`
	TotalRaised      uint64            `json:"total_raised"`
	TotalWithdrawn   uint64            `json:"total_withdrawn"`
	MinDeposit       uint64            `json:"min_deposit"`
	ExpectedYieldBps uint32            `json:"expected_yield_bps"`
	DurationDays     uint32            `json:"duration_days"`
	Status           OpportunityStatus `json:"status"`
	CreatedAt        vest.UnixTime     `json:"created_at"`
}

var _ orm.Model = (*Opportunity)(nil)

func (o *Opportunity) Marshal() ([]byte, error) {
	return codec.Marshal(o)
}

func (o *Opportunity) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, o)
}

func (o *Opportunity) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "ID", validateID(o.ID))
	if len(o.Name) == 0 || len(o.Name) > maxNameLength {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "must be 1 to %d bytes", maxNameLength))
	}
	errs = errors.AppendField(errs, "Admin", o.Admin.Validate())
	if o.TargetAmount == 0 {
		errs = errors.Append(errs, errors.Field("TargetAmount", errors.ErrAmount, "must be positive"))
	}
	if o.TotalWithdrawn > o.TotalRaised {
		errs = errors.Append(errs, errors.Field("TotalWithdrawn", errors.ErrState,
			"withdrawn %d exceeds raised %d", o.TotalWithdrawn, o.TotalRaised))
	}
	if o.ExpectedYieldBps > maxYieldBps {
		errs = errors.Append(errs, errors.Field("ExpectedYieldBps", errors.ErrInput, "above %d", maxYieldBps))
	}
	errs = errors.AppendField(errs, "Status", o.Status.Validate())
	errs = errors.AppendField(errs, "CreatedAt", o.CreatedAt.Validate())
	return errs
}

func (o *Opportunity) Copy() orm.Model {
	cpy := *o
	cpy.Admin = append(vest.Address(nil), o.Admin...)
	return &cpy
}

// Raise accounts a deposit towards the target and marks the opportunity
// funded once the target is reached.
func (o *Opportunity) Raise(amount uint64) error {
	raised, err := coin.AddUint64(o.TotalRaised, amount)
	if err != nil {
		return errors.Wrap(err, "total raised")
	}
	o.TotalRaised = raised
	if o.Status == OpportunityActive && o.TotalRaised >= o.TargetAmount {
		o.Status = OpportunityFunded
	}
	return nil
}

// Available returns the raised amount that was not withdrawn yet.
func (o *Opportunity) Available() uint64 {
	if o.TotalWithdrawn > o.TotalRaised {
		return 0
	}
	return o.TotalRaised - o.TotalWithdrawn
}

// Withdraw accounts funds taken out for use. It fails with
// ErrInsufficientFunds when more than available is requested.
func (o *Opportunity) Withdraw(amount uint64) error {
	if amount > o.Available() {
		return errors.Wrapf(ErrInsufficientFunds, "available %d, requested %d", o.Available(), amount)
	}
	o.TotalWithdrawn += amount
	return nil
}

func validateID(id string) error {
	if len(id) == 0 || len(id) > maxIDLength {
		return errors.Wrapf(errors.ErrInput, "must be 1 to %d bytes", maxIDLength)
	}
	return nil
}

// PositionStatus is the state of a single deposit.
type PositionStatus int32

const (
	PositionActive PositionStatus = iota
	PositionCompleted
	PositionCancelled
)

var positionStatusNames = map[PositionStatus]string{
	PositionActive:    "active",
	PositionCompleted: "completed",
	PositionCancelled: "cancelled",
}

func (s PositionStatus) String() string {
	if n, ok := positionStatusNames[s]; ok {
		return n
	}
	return "unknown"
}

func (s PositionStatus) Validate() error {
	if _, ok := positionStatusNames[s]; !ok {
		return errors.Wrapf(errors.ErrInput, "status %d", s)
	}
	return nil
}

// Position is the receipt of a deposit. Principal never changes, current
// value only grows with distributions.
type Position struct {
	Depositor      vest.Address   `json:"depositor"`
	TargetID       string         `json:"target_id"`
	Principal      uint64         `json:"principal"`
	CurrentValue   uint64         `json:"current_value"`
	DepositedAt    vest.UnixTime  `json:"deposited_at"`
	ExpectedReturn uint32         `json:"expected_return"`
	Status         PositionStatus `json:"status"`
}

var _ orm.Model = (*Position)(nil)

func (p *Position) Marshal() ([]byte, error) {
	return codec.Marshal(p)
}

func (p *Position) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, p)
}

func (p *Position) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", p.Depositor.Validate())
	errs = errors.AppendField(errs, "TargetID", validateID(p.TargetID))
	if p.Principal == 0 {
		errs = errors.Append(errs, errors.Field("Principal", errors.ErrAmount, "must be positive"))
	}
	if p.ExpectedReturn > maxReturnPct {
		errs = errors.Append(errs, errors.Field("ExpectedReturn", ErrInvalidReturn, "above %d", maxReturnPct))
	}
	errs = errors.AppendField(errs, "Status", p.Status.Validate())
	errs = errors.AppendField(errs, "DepositedAt", p.DepositedAt.Validate())
	return errs
}

func (p *Position) Copy() orm.Model {
	cpy := *p
	cpy.Depositor = append(vest.Address(nil), p.Depositor...)
	return &cpy
}

// Distribute adds returns to the current value of the position.
func (p *Position) Distribute(amount uint64) error {
	v, err := coin.AddUint64(p.CurrentValue, amount)
	if err != nil {
		return errors.Wrap(err, "current value")
	}
	p.CurrentValue = v
	return nil
}

// AdminList holds the identities allowed to manage opportunities.
type AdminList struct {
	Admins []vest.Address `json:"admins"`
}

var _ orm.Model = (*AdminList)(nil)

func (a *AdminList) Marshal() ([]byte, error) {
	return codec.Marshal(a)
}

func (a *AdminList) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, a)
}

func (a *AdminList) Validate() error {
	return validateAdmins(a.Admins)
}

func (a *AdminList) Copy() orm.Model {
	cpy := &AdminList{Admins: make([]vest.Address, len(a.Admins))}
	for i, addr := range a.Admins {
		cpy.Admins[i] = append(vest.Address(nil), addr...)
	}
	return cpy
}

// Contains returns true if addr is one of the admins.
func (a *AdminList) Contains(addr vest.Address) bool {
	for _, adm := range a.Admins {
		if adm.Equals(addr) {
			return true
		}
	}
	return false
}

func validateAdmins(admins []vest.Address) error {
	if len(admins) == 0 || len(admins) > maxAdmins {
		return errors.Field("Admins", errors.ErrInput, "must have 1 to %d entries", maxAdmins)
	}
	var errs error
	seen := make(map[string]struct{}, len(admins))
	for i, a := range admins {
		if err := a.Validate(); err != nil {
			errs = errors.AppendField(errs, fmt.Sprintf("Admins.%d", i), err)
			continue
		}
		if _, ok := seen[string(a)]; ok {
			errs = errors.Append(errs, errors.Field(fmt.Sprintf("Admins.%d", i), errors.ErrDuplicate, "admin %s", a))
		}
		seen[string(a)] = struct{}{}
	}
	return errs
}

// NewPoolBucket returns a bucket holding the escrow pool singleton.
func NewPoolBucket() orm.ModelBucket {
	return orm.NewModelBucket(poolBucketName, &EscrowPool{})
}

// NewOpportunityBucket returns a bucket for opportunities, indexed by the
// admin that created them.
func NewOpportunityBucket() orm.ModelBucket {
	return orm.NewModelBucket(opportBucket, &Opportunity{},
		orm.WithIndex("admin", opportunityAdmin, false),
	)
}

func opportunityAdmin(obj orm.Object) ([]byte, error) {
	o, ok := indexed(obj).(*Opportunity)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of opportunity, got %T", obj)
	}
	return o.Admin, nil
}

// NewPositionBucket returns a bucket for positions indexed by the depositor
// and by the target.
func NewPositionBucket() orm.ModelBucket {
	return orm.NewModelBucket(positionBucket, &Position{},
		orm.WithIndex("depositor", positionDepositor, false),
		orm.WithIndex("target", positionTarget, false),
	)
}

func positionDepositor(obj orm.Object) ([]byte, error) {
	p, ok := indexed(obj).(*Position)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of position, got %T", obj)
	}
	return p.Depositor, nil
}

func positionTarget(obj orm.Object) ([]byte, error) {
	p, ok := indexed(obj).(*Position)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of position, got %T", obj)
	}
	return []byte(p.TargetID), nil
}

func indexed(obj orm.Object) orm.Model {
	if obj == nil {
		return nil
	}
	return obj.Value()
}

// NewAdminListBucket returns a bucket holding the admin list singleton.
func NewAdminListBucket() orm.ModelBucket {
	return orm.NewModelBucket(adminListBucket, &AdminList{})
}
