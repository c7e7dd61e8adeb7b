package invest

import (
	"context"
	"testing"
	"time"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/gconf"
	"github.com/vestnet/vest/store"
	"github.com/vestnet/vest/vesttest"
	"github.com/vestnet/vest/vesttest/assert"
	"github.com/vestnet/vest/x/cash"
	"github.com/vestnet/vest/x/utils"
)

const ticker = "USDV"

var blockTime = time.Date(2019, 4, 1, 12, 0, 0, 0, time.UTC)

type registry map[string]vest.Handler

func (r registry) Handle(path string, h vest.Handler) {
	r[path] = h
}

// testEnv is an initialized program with a cash ledger handling the USDV
// ticker. Every message is executed inside a savepoint, the same way the
// application does it.
type testEnv struct {
	t        testing.TB
	db       vest.CacheableKVStore
	ctrl     cash.BaseController
	auth     *vesttest.CtxAuth
	handlers registry
	admin    vest.Condition
}

// newBareEnv returns an environment where the program is not initialized.
func newBareEnv(t testing.TB) *testEnv {
	t.Helper()
	db := store.MemStore()
	issuer := vesttest.NewCondition()
	assert.Nil(t, gconf.Save(db, "cash", &cash.Configuration{Owner: issuer.Address(), Tickers: []string{ticker}}))

	env := &testEnv{
		t:        t,
		db:       db,
		ctrl:     cash.NewController(),
		auth:     &vesttest.CtxAuth{Key: "invest"},
		handlers: make(registry),
		admin:    vesttest.NewCondition(),
	}
	RegisterRoutes(env.handlers, env.auth, env.ctrl)
	return env
}

func newTestEnv(t testing.TB, minDeposit, maxDeposit uint64) *testEnv {
	t.Helper()
	env := newBareEnv(t)
	_, err := env.deliver(env.admin, &InitializeProgramMsg{
		Admin:      env.admin.Address(),
		MinDeposit: minDeposit,
		MaxDeposit: maxDeposit,
		FeeBps:     50,
		Ticker:     ticker,
	})
	assert.Nil(t, err)
	return env
}

func (e *testEnv) ctx(signer vest.Condition) vest.Context {
	ctx := vest.WithBlockTime(context.Background(), blockTime)
	if signer == nil {
		return ctx
	}
	return e.auth.SetConditions(ctx, signer)
}

func (e *testEnv) deliver(signer vest.Condition, msg vest.Msg) (*vest.DeliverResult, error) {
	e.t.Helper()
	h, ok := e.handlers[msg.Path()]
	if !ok {
		e.t.Fatalf("no handler for %q", msg.Path())
	}
	tx := &vesttest.Tx{Msg: msg}
	return utils.NewSavepoint().OnDeliver().Deliver(e.ctx(signer), e.db, tx, h)
}

func (e *testEnv) check(signer vest.Condition, msg vest.Msg) (*vest.CheckResult, error) {
	e.t.Helper()
	cache := e.db.CacheWrap()
	defer cache.Discard()
	return e.handlers[msg.Path()].Check(e.ctx(signer), cache, &vesttest.Tx{Msg: msg})
}

// fund issues amount to a new depositor.
func (e *testEnv) fund(amount uint64) vest.Condition {
	e.t.Helper()
	c := vesttest.NewCondition()
	assert.Nil(e.t, e.ctrl.Issue(e.db, c.Address(), coin.NewCoin(amount, ticker)))
	return c
}

func (e *testEnv) balance(addr vest.Address) uint64 {
	e.t.Helper()
	c, err := e.ctrl.Balance(e.db, addr, ticker)
	assert.Nil(e.t, err)
	return c.Amount
}

func (e *testEnv) pool() *EscrowPool {
	e.t.Helper()
	p, err := newBuckets().loadPool(e.db)
	assert.Nil(e.t, err)
	return p
}

func (e *testEnv) position(depositor vest.Address, target string) *Position {
	e.t.Helper()
	var p Position
	assert.Nil(e.t, NewPositionBucket().One(e.db, PositionKey(depositor, target), &p))
	return &p
}

func (e *testEnv) opportunity(id string) *Opportunity {
	e.t.Helper()
	o, err := newBuckets().loadOpportunity(e.db, id)
	assert.Nil(e.t, err)
	return o
}
