/*
Package client provides access to a running vestd node over the
tendermint RPC interface. It submits signed transactions and reads the
program state.
*/
package client

import (
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/rpc/client"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/app"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/x/cash"
	"github.com/vestnet/vest/x/invest"
	"github.com/vestnet/vest/x/sigs"
)

// Client wraps a tendermint connection to provide simple access to the
// vestd data structures.
type Client struct {
	conn client.ABCIClient
}

// NewClient wraps an existing tendermint connection.
func NewClient(conn client.ABCIClient) *Client {
	return &Client{conn: conn}
}

// NewHTTPClient connects to a remote node, for example
// "http://localhost:26657".
func NewHTTPClient(remote string) *Client {
	return NewClient(client.NewHTTP(remote, "/websocket"))
}

// CommitResult is the outcome of a transaction included in a block.
type CommitResult struct {
	Height int64
	Hash   []byte
	Data   []byte
	Log    string
}

// SubmitTx broadcasts the transaction and waits until it is included in a
// block. A rejected transaction results in an error carrying the code
// returned by the node.
func (c *Client) SubmitTx(tx vest.Tx) (*CommitResult, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res, err := c.conn.BroadcastTxCommit(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if res.CheckTx.IsErr() {
		return nil, responseError(res.CheckTx.Code, res.CheckTx.Log)
	}
	if res.DeliverTx.IsErr() {
		return nil, responseError(res.DeliverTx.Code, res.DeliverTx.Log)
	}
	return &CommitResult{
		Height: res.Height,
		Hash:   res.Hash,
		Data:   res.DeliverTx.Data,
		Log:    res.DeliverTx.Log,
	}, nil
}

// responseError restores the registered error for given ABCI code.
func responseError(code uint32, log string) error {
	if e := errors.Code(code); e != nil {
		return errors.Wrap(e, log)
	}
	return errors.Wrapf(errors.ErrHuman, "code %d: %s", code, log)
}

// Query runs an ABCI query and returns the resulting models.
func (c *Client) Query(path string, data []byte) ([]vest.Model, error) {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err)
	}
	return queryModels(res.Response)
}

func queryModels(res abci.ResponseQuery) ([]vest.Model, error) {
	if res.IsErr() {
		return nil, responseError(res.Code, res.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return app.JoinResults(&keys, &values)
}

// queryOne loads the single model stored under key into dest.
func (c *Client) queryOne(path string, key []byte, dest vest.Persistent) error {
	models, err := c.Query(path, key)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", path, key)
	}
	return dest.Unmarshal(models[0].Value)
}

// Pool returns the escrow pool.
func (c *Client) Pool() (*invest.EscrowPool, error) {
	var p invest.EscrowPool
	if err := c.queryOne("/invest/pool", invest.PoolAddress(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Config returns the program configuration.
func (c *Client) Config() (*invest.Config, error) {
	var conf invest.Config
	if err := c.queryOne("/invest/config", nil, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Opportunity returns the opportunity with given id.
func (c *Client) Opportunity(id string) (*invest.Opportunity, error) {
	var o invest.Opportunity
	if err := c.queryOne("/opportunities", invest.OpportunityKey(id), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Position returns the position of the depositor in given target.
func (c *Client) Position(depositor vest.Address, target string) (*invest.Position, error) {
	var p invest.Position
	if err := c.queryOne("/positions", invest.PositionKey(depositor, target), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Positions returns all positions of the depositor.
func (c *Client) Positions(depositor vest.Address) ([]*invest.Position, error) {
	models, err := c.Query("/positions/depositor", depositor)
	if err != nil {
		return nil, err
	}
	res := make([]*invest.Position, 0, len(models))
	for _, m := range models {
		var p invest.Position
		if err := p.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrapf(err, "position %X", m.Key)
		}
		res = append(res, &p)
	}
	return res, nil
}

// Balance returns the owner balance of given ticker. A missing wallet
// has a zero balance.
func (c *Client) Balance(owner vest.Address, ticker string) (uint64, error) {
	var w cash.Wallet
	switch err := c.queryOne("/wallets", cash.WalletKey(owner, ticker), &w); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return w.Balance, nil
}

// NextNonce returns the sequence to sign the next transaction of the
// signer with.
func (c *Client) NextNonce(signer vest.Address) (int64, error) {
	var user sigs.UserData
	switch err := c.queryOne("/auth", signer, &user); {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return user.Sequence, nil
}
