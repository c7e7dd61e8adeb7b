package cash

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
)

func init() {
	codec.RegisterMsg(&SendMsg{}, pathSendMsg)
	codec.RegisterMsg(&FreezeMsg{}, pathFreezeMsg)
	codec.RegisterMsg(&UpdateConfigurationMsg{}, pathUpdateConfigurationMsg)
}

const (
	pathSendMsg                = "cash/send"
	pathFreezeMsg              = "cash/freeze"
	pathUpdateConfigurationMsg = "cash/update_configuration"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves funds between two wallets. It must be signed by the source.
type SendMsg struct {
	Src    vest.Address `json:"src"`
	Dest   vest.Address `json:"dest"`
	Amount coin.Coin    `json:"amount"`
	Memo   string       `json:"memo,omitempty"`
}

var _ vest.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var err error
	if !s.Amount.IsPositive() {
		err = errors.Wrapf(errors.ErrAmount, "non-positive SendMsg: %s", s.Amount)
	} else {
		err = errors.Append(err, errors.Wrap(s.Amount.Validate(), "amount"))
	}
	err = errors.AppendField(err, "Src", s.Src.Validate())
	err = errors.AppendField(err, "Dest", s.Dest.Validate())
	if len(s.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return err
}

// FreezeMsg freezes or unfreezes a wallet. It must be signed by the issuer.
type FreezeMsg struct {
	Owner  vest.Address `json:"owner"`
	Ticker string       `json:"ticker"`
	Frozen bool         `json:"frozen"`
}

var _ vest.Msg = (*FreezeMsg)(nil)

func (FreezeMsg) Path() string {
	return pathFreezeMsg
}

func (m *FreezeMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Owner", m.Owner.Validate())
	if !coin.IsCC(m.Ticker) {
		err = errors.Append(err, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", m.Ticker))
	}
	return err
}

// UpdateConfigurationMsg patches the ledger configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration `json:"patch"`
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
	var err error
	if len(m.Patch.Owner) != 0 {
		err = errors.AppendField(err, "Owner", m.Patch.Owner.Validate())
	}
	for _, t := range m.Patch.Tickers {
		if !coin.IsCC(t) {
			err = errors.Append(err, errors.Field("Tickers", errors.ErrCurrency, "invalid ticker %q", t))
		}
	}
	return err
}
