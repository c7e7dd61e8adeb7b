package cash

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/gconf"
)

const confPkg = "cash"

// Configuration is the ledger wide configuration.
type Configuration struct {
	// Owner is the issuer. It is allowed to freeze wallets and update
	// this configuration.
	Owner vest.Address `json:"owner"`
	// Tickers lists all currencies that can be moved.
	Tickers []string `json:"tickers"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() vest.Address {
	return c.Owner
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if len(c.Tickers) == 0 {
		errs = errors.Append(errs, errors.Field("Tickers", errors.ErrEmpty, "at least one ticker required"))
	}
	for _, t := range c.Tickers {
		if !coin.IsCC(t) {
			errs = errors.Append(errs, errors.Field("Tickers", errors.ErrCurrency, "invalid ticker %q", t))
		}
	}
	return errs
}

// Accepts returns true if the ledger handles given ticker.
func (c *Configuration) Accepts(ticker string) bool {
	for _, t := range c.Tickers {
		if t == ticker {
			return true
		}
	}
	return false
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
