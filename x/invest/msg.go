package invest

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/errors"
)

func init() {
	codec.RegisterMsg(&InitializeProgramMsg{}, pathInitializeProgramMsg)
	codec.RegisterMsg(&InitializeAdminMsg{}, pathInitializeAdminMsg)
	codec.RegisterMsg(&CreateOpportunityMsg{}, pathCreateOpportunityMsg)
	codec.RegisterMsg(&DepositMsg{}, pathDepositMsg)
	codec.RegisterMsg(&ReleaseFundsMsg{}, pathReleaseFundsMsg)
	codec.RegisterMsg(&DistributeReturnsMsg{}, pathDistributeReturnsMsg)
	codec.RegisterMsg(&WithdrawForUseMsg{}, pathWithdrawForUseMsg)
	codec.RegisterMsg(&CloseOpportunityMsg{}, pathCloseOpportunityMsg)
	codec.RegisterMsg(&UpdateConfigurationMsg{}, pathUpdateConfigurationMsg)
}

const (
	pathInitializeProgramMsg   = "invest/initialize_program"
	pathInitializeAdminMsg     = "invest/initialize_admin"
	pathCreateOpportunityMsg   = "invest/create_opportunity"
	pathDepositMsg             = "invest/deposit"
	pathReleaseFundsMsg        = "invest/release_funds"
	pathDistributeReturnsMsg   = "invest/distribute_returns"
	pathWithdrawForUseMsg      = "invest/withdraw_for_use"
	pathCloseOpportunityMsg    = "invest/close_opportunity"
	pathUpdateConfigurationMsg = "invest/update_configuration"
)

// InitializeProgramMsg creates the configuration and the escrow pool. Admin
// becomes the configuration owner and the pool release authority.
type InitializeProgramMsg struct {
	Admin      vest.Address `json:"admin"`
	MinDeposit uint64       `json:"min_deposit"`
	MaxDeposit uint64       `json:"max_deposit"`
	FeeBps     uint32       `json:"fee_bps"`
	Ticker     string       `json:"ticker"`
}

var _ vest.Msg = (*InitializeProgramMsg)(nil)

func (InitializeProgramMsg) Path() string {
	return pathInitializeProgramMsg
}

func (m *InitializeProgramMsg) Validate() error {
	return m.Config().Validate()
}

// Config returns the configuration described by this message.
func (m *InitializeProgramMsg) Config() *Config {
	return &Config{
		Owner:      m.Admin,
		MinDeposit: m.MinDeposit,
		MaxDeposit: m.MaxDeposit,
		FeeBps:     m.FeeBps,
		Ticker:     m.Ticker,
	}
}

// InitializeAdminMsg creates the admin list.
type InitializeAdminMsg struct {
	Admins []vest.Address `json:"admins"`
}

var _ vest.Msg = (*InitializeAdminMsg)(nil)

func (InitializeAdminMsg) Path() string {
	return pathInitializeAdminMsg
}

func (m *InitializeAdminMsg) Validate() error {
	return validateAdmins(m.Admins)
}

// CreateOpportunityMsg registers a new opportunity. The signing admin is
// recorded as its creator.
type CreateOpportunityMsg struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	TargetAmount     uint64 `json:"target_amount"`
	MinDeposit       uint64 `json:"min_deposit"`
	ExpectedYieldBps uint32 `json:"expected_yield_bps"`
	DurationDays     uint32 `json:"duration_days"`
}

var _ vest.Msg = (*CreateOpportunityMsg)(nil)

func (CreateOpportunityMsg) Path() string {
	return pathCreateOpportunityMsg
}

func (m *CreateOpportunityMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "ID", validateID(m.ID))
	if len(m.Name) == 0 || len(m.Name) > maxNameLength {
		errs = errors.Append(errs, errors.Field("Name", errors.ErrInput, "must be 1 to %d bytes", maxNameLength))
	}
	if m.TargetAmount == 0 {
		errs = errors.Append(errs, errors.Field("TargetAmount", errors.ErrAmount, "must be positive"))
	}
	if m.ExpectedYieldBps > maxYieldBps {
		errs = errors.Append(errs, errors.Field("ExpectedYieldBps", errors.ErrInput, "above %d", maxYieldBps))
	}
	return errs
}

// DepositMsg moves funds from the depositor wallet into the pool. TargetID
// is either an opportunity id or any other identifier for a pool wide
// deposit.
//
// Amount and expected return bounds are checked against the stored state by
// the handler, so that their failures are reported in a fixed order.
type DepositMsg struct {
	Depositor      vest.Address `json:"depositor"`
	TargetID       string       `json:"target_id"`
	Amount         uint64       `json:"amount"`
	ExpectedReturn uint32       `json:"expected_return"`
}

var _ vest.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "TargetID", validateID(m.TargetID))
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", ErrAmountTooSmall, "must be positive"))
	}
	return errs
}

// ReleaseFundsMsg moves funds from the pool to the destination. Only the
// pool release authority can sign it.
type ReleaseFundsMsg struct {
	TargetID    string       `json:"target_id"`
	Destination vest.Address `json:"destination"`
	Amount      uint64       `json:"amount"`
}

var _ vest.Msg = (*ReleaseFundsMsg)(nil)

func (ReleaseFundsMsg) Path() string {
	return pathReleaseFundsMsg
}

func (m *ReleaseFundsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "TargetID", validateID(m.TargetID))
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Amount", positive(m.Amount))
	return errs
}

// DistributeReturnsMsg pays returns from the pool to the holder of a
// position and increases the position value.
type DistributeReturnsMsg struct {
	Depositor vest.Address `json:"depositor"`
	TargetID  string       `json:"target_id"`
	Amount    uint64       `json:"amount"`
}

var _ vest.Msg = (*DistributeReturnsMsg)(nil)

func (DistributeReturnsMsg) Path() string {
	return pathDistributeReturnsMsg
}

func (m *DistributeReturnsMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "TargetID", validateID(m.TargetID))
	errs = errors.AppendField(errs, "Amount", positive(m.Amount))
	return errs
}

// WithdrawForUseMsg spends funds raised by a funded opportunity. When
// Destination is not set, funds go to the signing admin.
type WithdrawForUseMsg struct {
	OpportunityID string       `json:"opportunity_id"`
	Destination   vest.Address `json:"destination,omitempty"`
	Amount        uint64       `json:"amount"`
}

var _ vest.Msg = (*WithdrawForUseMsg)(nil)

func (WithdrawForUseMsg) Path() string {
	return pathWithdrawForUseMsg
}

func (m *WithdrawForUseMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "OpportunityID", validateID(m.OpportunityID))
	if len(m.Destination) != 0 {
		errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	}
	errs = errors.AppendField(errs, "Amount", positive(m.Amount))
	return errs
}

// CloseOpportunityMsg moves an opportunity into a final state. Outcome must
// be either OpportunityCompleted or OpportunityCancelled.
type CloseOpportunityMsg struct {
	OpportunityID string            `json:"opportunity_id"`
	Outcome       OpportunityStatus `json:"outcome"`
}

var _ vest.Msg = (*CloseOpportunityMsg)(nil)

func (CloseOpportunityMsg) Path() string {
	return pathCloseOpportunityMsg
}

func (m *CloseOpportunityMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "OpportunityID", validateID(m.OpportunityID))
	if m.Outcome != OpportunityCompleted && m.Outcome != OpportunityCancelled {
		errs = errors.Append(errs, errors.Field("Outcome", errors.ErrInput, "final state required, got %s", m.Outcome))
	}
	return errs
}

// UpdateConfigurationMsg patches the program configuration.
type UpdateConfigurationMsg struct {
	Patch *Config `json:"patch"`
}

var _ vest.Msg = (*UpdateConfigurationMsg)(nil)

func (*UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

// Validate will skip any zero fields and validate the set ones
func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	var errs error
	if len(m.Patch.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", m.Patch.Owner.Validate())
	}
	if m.Patch.FeeBps > maxFeeBps {
		errs = errors.Append(errs, errors.Field("FeeBps", errors.ErrInput, "fee %d above %d", m.Patch.FeeBps, maxFeeBps))
	}
	// Escrowed funds are held in the initial ticker.
	if m.Patch.Ticker != "" {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "ticker cannot be changed"))
	}
	return errs
}

func positive(amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "must be positive")
	}
	return nil
}
