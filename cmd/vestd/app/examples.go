package app

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/commands"
	"github.com/vestnet/vest/crypto"
	"github.com/vestnet/vest/x/cash"
	"github.com/vestnet/vest/x/invest"
	"github.com/vestnet/vest/x/sigs"
)

// Examples returns encoded sample messages and transactions for client
// libraries to test their codecs against.
func Examples() []commands.Example {
	key := crypto.PrivKeyEd25519FromSeed(make([]byte, 32))
	addr := key.PublicKey().Address()
	dest := vest.NewCondition("sigs", "ed25519", []byte("destination")).Address()

	deposit := &invest.DepositMsg{
		Depositor:      addr,
		TargetID:       "solar-farm",
		Amount:         500,
		ExpectedReturn: 10,
	}
	tx := &Tx{Msg: deposit}
	sig, err := sigs.SignTx(key, tx, "test-chain", 0)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "pub_key", Obj: key.PublicKey()},
		{Filename: "initialize_program_msg", Obj: &invest.InitializeProgramMsg{
			Admin:      addr,
			MinDeposit: 100,
			MaxDeposit: 10000,
			Ticker:     defaultTicker,
		}},
		{Filename: "create_opportunity_msg", Obj: &invest.CreateOpportunityMsg{
			ID:               "solar-farm",
			Name:             "Solar farm",
			TargetAmount:     5000,
			MinDeposit:       100,
			ExpectedYieldBps: 800,
			DurationDays:     365,
		}},
		{Filename: "deposit_msg", Obj: deposit},
		{Filename: "release_funds_msg", Obj: &invest.ReleaseFundsMsg{
			TargetID:    "solar-farm",
			Destination: dest,
			Amount:      100,
		}},
		{Filename: "send_msg", Obj: &cash.SendMsg{
			Src:    addr,
			Dest:   dest,
			Amount: coin.NewCoin(50, defaultTicker),
			Memo:   "example",
		}},
		{Filename: "signed_tx", Obj: tx},
	}
}
