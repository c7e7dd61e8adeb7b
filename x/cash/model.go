package cash

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/codec"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single ticker owned by an address.
type Wallet struct {
	Owner   vest.Address `json:"owner"`
	Ticker  string       `json:"ticker"`
	Balance uint64       `json:"balance"`
	Frozen  bool         `json:"frozen"`
}

var _ orm.Model = (*Wallet)(nil)

// NewWallet returns an empty wallet.
func NewWallet(owner vest.Address, ticker string) *Wallet {
	return &Wallet{Owner: owner, Ticker: ticker}
}

// WalletKey returns the key under which the wallet holding given ticker for
// given owner is stored.
func WalletKey(owner vest.Address, ticker string) []byte {
	return vest.DeriveCondition("wallet", owner, []byte(ticker)).Address()
}

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, w)
}

func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", w.Owner.Validate())
	if !coin.IsCC(w.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrCurrency, "invalid ticker %q", w.Ticker))
	}
	return errs
}

func (w *Wallet) Copy() orm.Model {
	cpy := *w
	cpy.Owner = append(vest.Address(nil), w.Owner...)
	return &cpy
}

// Coin returns the balance of this wallet.
func (w *Wallet) Coin() coin.Coin {
	return coin.NewCoin(w.Balance, w.Ticker)
}

// Add increases the balance. Fails on overflow.
func (w *Wallet) Add(amount uint64) error {
	b, err := coin.AddUint64(w.Balance, amount)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	w.Balance = b
	return nil
}

// Subtract decreases the balance. Fails with ErrInsufficientAmount when the
// balance is too low.
func (w *Wallet) Subtract(amount uint64) error {
	b, err := coin.SubUint64(w.Balance, amount)
	if err != nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", w.Balance, amount)
	}
	w.Balance = b
	return nil
}

// NewBucket returns a bucket for storing wallets, indexed by the owner.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{},
		orm.WithIndex("owner", walletOwner, false),
	)
}

func walletOwner(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "can only take index of wallet, got %T", obj.Value())
	}
	return w.Owner, nil
}
