package app

import (
	"github.com/vestnet/vest"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...vest.Initializer) vest.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []vest.Initializer
}

var _ vest.Initializer = chainInitializer{}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts vest.Options, kv vest.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
