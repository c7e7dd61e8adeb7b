package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/store/iavl"
	"github.com/vestnet/vest/vesttest"
)

// rawQuery returns the value stored under the queried key.
type rawQuery struct{}

func (rawQuery) Query(db vest.ReadOnlyKVStore, mod string, data []byte) ([]vest.Model, error) {
	if mod != vest.KeyQueryMod {
		return nil, errors.Wrap(errors.ErrInput, "only key queries")
	}
	val, err := db.Get(data)
	if err != nil || val == nil {
		return nil, err
	}
	return []vest.Model{{Key: data, Value: val}}, nil
}

// writeGenesis stores every option as a raw key.
type writeGenesis struct{}

func (writeGenesis) FromGenesis(opts vest.Options, kv vest.KVStore) error {
	for k, v := range opts {
		if err := kv.Set([]byte(k), v); err != nil {
			return err
		}
	}
	return nil
}

func newTestApp(t *testing.T, h vest.Handler) BaseApp {
	t.Helper()
	qr := vest.NewQueryRouter()
	qr.Register("/raw", rawQuery{})
	store := NewStoreApp("vest-test", iavl.NewMemCommitStore(), qr, context.Background()).
		WithInit(ChainInitializers(writeGenesis{}))
	decoder := func([]byte) (vest.Tx, error) {
		return &vesttest.Tx{Msg: &vesttest.Msg{RoutePath: "test/write"}}, nil
	}
	return NewBaseApp(store, decoder, h, false)
}

func TestStoreAppLifecycle(t *testing.T) {
	app := newTestApp(t, &vesttest.WriteHandler{Key: []byte("written"), Value: []byte("yes")})

	app.InitChain(abci.RequestInitChain{
		ChainId:       "vest-chain",
		AppStateBytes: []byte(`{"genesis":"1"}`),
	})
	assert.Equal(t, "vest-chain", app.GetChainID())

	app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 1, Time: time.Unix(1600000000, 0)},
	})
	res := app.DeliverTx([]byte("ignored"))
	require.Equal(t, uint32(0), res.Code, res.Log)
	commit := app.Commit()

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)
	assert.Equal(t, "vest-test", info.Data)

	q := app.Query(abci.RequestQuery{Path: "/raw", Data: []byte("written")})
	require.Equal(t, uint32(0), q.Code, q.Log)
	models := queryModels(t, q)
	require.Len(t, models, 1)
	assert.Equal(t, []byte("yes"), models[0].Value)

	q = app.Query(abci.RequestQuery{Path: "/raw", Data: []byte("genesis")})
	models = queryModels(t, q)
	require.Len(t, models, 1)
	assert.Equal(t, []byte(`"1"`), models[0].Value)
}

func TestStoreAppQueryErrors(t *testing.T) {
	app := newTestApp(t, &vesttest.Handler{})

	q := app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), q.Code)

	q = app.Query(abci.RequestQuery{Path: "/raw?prefix", Data: []byte("a")})
	assert.Equal(t, errors.ErrInput.ABCICode(), q.Code)
}

func TestInitChainTwicePanics(t *testing.T) {
	app := newTestApp(t, &vesttest.Handler{})
	req := abci.RequestInitChain{ChainId: "vest-chain", AppStateBytes: []byte(`{}`)}
	app.InitChain(req)
	assert.Panics(t, func() { app.InitChain(req) })
}

func TestInitChainRequiresAppState(t *testing.T) {
	app := newTestApp(t, &vesttest.Handler{})
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "vest-chain"})
	})
}

func TestFailedDeliverReturnsCode(t *testing.T) {
	app := newTestApp(t, &vesttest.Handler{DeliverErr: errors.ErrUnauthorized})
	app.InitChain(abci.RequestInitChain{ChainId: "vest-chain", AppStateBytes: []byte(`{}`)})
	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})

	res := app.DeliverTx([]byte("tx"))
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res.Code)

	check := app.CheckTx([]byte("tx"))
	assert.Equal(t, uint32(0), check.Code, check.Log)
}

func queryModels(t *testing.T, q abci.ResponseQuery) []vest.Model {
	t.Helper()
	var keys, values ResultSet
	require.NoError(t, keys.Unmarshal(q.Key))
	require.NoError(t, values.Unmarshal(q.Value))
	models, err := JoinResults(&keys, &values)
	require.NoError(t, err)
	return models
}
