package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/app"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/commands/server"
	"github.com/vestnet/vest/crypto"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/x/cash"
	"github.com/vestnet/vest/x/invest"
)

const (
	defaultTicker = "USDV"
	// initialSupply is issued to the generated owner account.
	initialSupply = 123456789
)

// genesisState is the app_state layout read by the initializers.
type genesisState struct {
	Conf   genesisConf           `json:"conf"`
	Cash   []cash.GenesisAccount `json:"cash"`
	Invest invest.Genesis        `json:"invest"`
}

type genesisConf struct {
	Cash   cash.Configuration `json:"cash"`
	Invest invest.Config      `json:"invest"`
}

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The account is the issuer, the program
// owner and the only admin.
//
// Arguments are an optional ticker followed by an optional owner address.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := defaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrCurrency, "invalid ticker %s", ticker)
		}
	}

	var owner vest.Address
	if len(args) > 1 {
		addr, err := vest.ParseAddress(args[1])
		if err != nil {
			return nil, err
		}
		owner = addr
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		addr, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		owner = addr
		fmt.Println(keys)
	}

	state := genesisState{
		Conf: genesisConf{
			Cash: cash.Configuration{
				Owner:   owner,
				Tickers: []string{ticker},
			},
			Invest: invest.Config{
				Owner:      owner,
				MinDeposit: 100,
				MaxDeposit: 1000000,
				Ticker:     ticker,
			},
		},
		Cash: []cash.GenesisAccount{
			{Address: owner, Coins: []coin.Coin{coin.NewCoin(initialSupply, ticker)}},
		},
		Invest: invest.Genesis{Admins: []vest.Address{owner}},
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, conf server.Config) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" && conf.DBBackend != server.BackendMemDB {
		dbPath = filepath.Join(home, "vest.db")
	}

	application, err := Application("vestd", Stack(), TxDecoder, dbPath, conf.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(app.ChainInitializers(
		cash.Initializer{},
		invest.Initializer{},
	))

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (vest.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}
