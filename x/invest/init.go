package invest

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/gconf"
)

const optKey = "invest"

// Genesis is the program state that can be set in the genesis file.
type Genesis struct {
	Admins []vest.Address `json:"admins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ vest.Initializer = Initializer{}

// FromGenesis initializes the program when the genesis file contains the
// invest configuration. The configuration owner becomes the pool release
// authority. Without a configuration the program must be initialized with
// InitializeProgramMsg.
func (Initializer) FromGenesis(opts vest.Options, kv vest.KVStore) error {
	conf := &Config{}
	switch err := gconf.InitConfig(kv, opts, confPkg, conf); {
	case errors.ErrNotFound.Is(err):
		return nil
	case err != nil:
		return errors.Wrap(err, "init config")
	}

	b := newBuckets()
	if err := b.pool.Create(kv, PoolAddress(), &EscrowPool{ReleaseAuthority: conf.Owner}); err != nil {
		return errors.Wrap(err, "create pool")
	}

	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if len(gen.Admins) == 0 {
		return nil
	}
	if err := b.admins.Create(kv, AdminListKey(), &AdminList{Admins: gen.Admins}); err != nil {
		return errors.Wrap(err, "create admin list")
	}
	return nil
}
