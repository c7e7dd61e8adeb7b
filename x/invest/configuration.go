package invest

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/gconf"
)

const confPkg = "invest"

// maxFeeBps is 100% expressed in basis points.
const maxFeeBps = 10000

// Config holds the program wide deposit bounds.
type Config struct {
	// Owner is the admin identity that initialized the program. It is
	// the only one allowed to update this configuration.
	Owner      vest.Address `json:"owner"`
	MinDeposit uint64       `json:"min_deposit"`
	MaxDeposit uint64       `json:"max_deposit"`
	// FeeBps is stored but never charged.
	FeeBps uint32 `json:"fee_bps"`
	// Ticker of the pegged asset accepted for deposits.
	Ticker string `json:"ticker"`
}

var _ gconf.OwnedConfig = (*Config)(nil)

func (c *Config) GetOwner() vest.Address {
	return c.Owner
}

func (c *Config) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Config) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}

func (c *Config) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.MinDeposit > c.MaxDeposit {
		errs = errors.Append(errs, errors.Field("MinDeposit", errors.ErrInput,
			"minimum %d greater than maximum %d", c.MinDeposit, c.MaxDeposit))
	}
	if c.FeeBps > maxFeeBps {
		errs = errors.Append(errs, errors.Field("FeeBps", errors.ErrInput, "fee %d above %d", c.FeeBps, maxFeeBps))
	}
	if !coin.IsCC(c.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", c.Ticker))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Config, error) {
	var conf Config
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
