package cash

import (
	"github.com/vestnet/vest"
	"github.com/vestnet/vest/coin"
	"github.com/vestnet/vest/errors"
	"github.com/vestnet/vest/orm"
	"github.com/vestnet/vest/x"
)

// Authority proves the right to spend funds owned by an address.
type Authority interface {
	CanSpend(owner vest.Address) bool
}

// SignerAuthority returns an authority granted to every address that signed
// the transaction carried by ctx.
func SignerAuthority(ctx vest.Context, auth x.Authenticator) Authority {
	return signerAuthority{ctx: ctx, auth: auth}
}

type signerAuthority struct {
	ctx  vest.Context
	auth x.Authenticator
}

func (a signerAuthority) CanSpend(owner vest.Address) bool {
	return a.auth.HasAddress(a.ctx, owner)
}

// Controller is the functionality that cash exposes to other extensions.
type Controller interface {
	// Transfer moves given amount from the src wallet into the dst
	// wallet. The authority must be allowed to spend from src.
	Transfer(ctx vest.Context, db vest.KVStore, src, dst vest.Address, authority Authority, amount coin.Coin) error
	// Balance returns the amount held by given owner.
	Balance(db vest.ReadOnlyKVStore, owner vest.Address, ticker string) (coin.Coin, error)
	// Issue adds the amount to the dst wallet out of thin air.
	Issue(db vest.KVStore, dst vest.Address, amount coin.Coin) error
	// SetFrozen freezes or unfreezes a wallet.
	SetFrozen(db vest.KVStore, owner vest.Address, ticker string, frozen bool) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Transfer moves funds between two wallets. It fails with
// ErrInsufficientAmount when the source balance is too low, ErrFrozen when
// any of the wallets is frozen, ErrCurrency when the ticker is not handled
// and ErrUnauthorized when the authority cannot spend from src.
func (c BaseController) Transfer(ctx vest.Context, db vest.KVStore, src, dst vest.Address, authority Authority, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive transfer: %s", amount)
	}
	conf, err := loadConf(db)
	if err != nil {
		return err
	}
	if !conf.Accepts(amount.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "ticker %q not handled", amount.Ticker)
	}
	if authority == nil || !authority.CanSpend(src) {
		return errors.Wrapf(errors.ErrUnauthorized, "cannot spend from %s", src)
	}

	sender, err := c.load(db, src, amount.Ticker)
	if err != nil {
		return err
	}
	if sender.Frozen {
		return errors.Wrapf(ErrFrozen, "source %s", src)
	}
	if err := sender.Subtract(amount.Amount); err != nil {
		return err
	}
	if src.Equals(dst) {
		return nil
	}

	recipient, err := c.getOrCreate(db, dst, amount.Ticker)
	if err != nil {
		return err
	}
	if recipient.Frozen {
		return errors.Wrapf(ErrFrozen, "destination %s", dst)
	}
	if err := recipient.Add(amount.Amount); err != nil {
		return err
	}

	if err := c.bucket.Put(db, WalletKey(src, amount.Ticker), sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Put(db, WalletKey(dst, amount.Ticker), recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}

	vest.GetLogger(ctx).Debug("transfer", "src", src, "dst", dst, "amount", amount)
	return nil
}

// Balance returns the balance of given wallet. A missing wallet has a zero
// balance.
func (c BaseController) Balance(db vest.ReadOnlyKVStore, owner vest.Address, ticker string) (coin.Coin, error) {
	w, err := c.getOrCreate(db, owner, ticker)
	if err != nil {
		return coin.Coin{}, err
	}
	return w.Coin(), nil
}

// Issue attempts to add the given amount of coins to the destination
// wallet. Fails if it overflows the wallet.
func (c BaseController) Issue(db vest.KVStore, dst vest.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.getOrCreate(db, dst, amount.Ticker)
	if err != nil {
		return err
	}
	if err := w.Add(amount.Amount); err != nil {
		return err
	}
	return c.bucket.Put(db, WalletKey(dst, amount.Ticker), w)
}

// SetFrozen changes the frozen flag of a wallet, creating it if needed.
func (c BaseController) SetFrozen(db vest.KVStore, owner vest.Address, ticker string, frozen bool) error {
	w, err := c.getOrCreate(db, owner, ticker)
	if err != nil {
		return err
	}
	w.Frozen = frozen
	return c.bucket.Put(db, WalletKey(owner, ticker), w)
}

func (c BaseController) load(db vest.ReadOnlyKVStore, owner vest.Address, ticker string) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, WalletKey(owner, ticker), &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "no %s wallet for %s", ticker, owner)
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}

func (c BaseController) getOrCreate(db vest.ReadOnlyKVStore, owner vest.Address, ticker string) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, WalletKey(owner, ticker), &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return NewWallet(owner, ticker), nil
	default:
		return nil, errors.Wrap(err, "load wallet")
	}
}
