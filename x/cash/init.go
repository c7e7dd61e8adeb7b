package cash

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/gconf"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use vest.Address, so address in hex, not base64
type GenesisAccount struct {
	Address vest.Address `json:"address"`
	Coins   []coin.Coin  `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ vest.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts vest.Options, kv vest.KVStore) error {
	if err := gconf.InitConfig(kv, opts, confPkg, &Configuration{}); err != nil {
		return errors.Wrap(err, "init config")
	}

	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController()
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return err
		}
		for _, c := range acct.Coins {
			if err := ctrl.Issue(kv, acct.Address, c); err != nil {
				return errors.Wrapf(err, "issue %s to %s", c, acct.Address)
			}
		}
	}
	return nil
}
