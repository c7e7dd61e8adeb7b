/*
Package app links together all the various components
to construct the vestd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/app"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/store/iavl"
	"github.com/vestnet/vest/x"
	"github.com/vestnet/vest/x/cash"
	"github.com/vestnet/vest/x/invest"
	"github.com/vestnet/vest/x/sigs"
	"github.com/vestnet/vest/x/utils"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(prometheus.DefaultRegisterer),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the token ledger and the
// investment program handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController()
	cash.RegisterRoutes(r, authFn, ctrl)
	invest.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/invest/config",
// "/invest/pool", "/opportunities", "/positions" and "/admins"
func QueryRouter() vest.QueryRouter {
	r := vest.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		invest.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() vest.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h vest.Handler, tx vest.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (vest.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	s, err := iavl.NewCommitStore(dir, name)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	return s, nil
}
