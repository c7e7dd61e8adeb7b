// Package coin implements the amounts of the pegged asset handled by the
// escrow. All values are integers in the smallest unit of the asset and all
// arithmetic is checked.
package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vestnet/vest/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,6}$`).MatchString

// Coin is an amount of a single currency.
type Coin struct {
	Ticker string `json:"ticker"`
	Amount uint64 `json:"amount"`
}

// NewCoin creates a new coin object.
func NewCoin(amount uint64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount uint64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// Add combines two coins. Returns error if they are of different currencies,
// or if the combination would cause an overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	sum, err := AddUint64(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: sum}, nil
}

// Subtract takes the other coin from this one. Returns error if they are of
// different currencies, or if the result would be below zero.
func (c Coin) Subtract(o Coin) (Coin, error) {
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "subtracting %s from %s", o.Ticker, c.Ticker)
	}
	diff, err := SubUint64(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: diff}, nil
}

// Compare will check values of two coins, without inspecting the currency
// code. It returns -1 if c is less than o, 0 if they are equal and 1 if c is
// greater than o.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount < o.Amount:
		return -1
	case c.Amount > o.Amount:
		return 1
	}
	return 0
}

// IsGTE returns true if c is same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// IsZero returns true if the amount is 0.
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0.
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// Validate ensures that the coin is in the valid range and a valid currency
// code. It accepts zero values.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid currency: %q", c.Ticker)
	}
	return nil
}

// String provides a human readable representation of the coin, for example
// "500 USDV".
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatUint(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}

var coinp = regexp.MustCompile(`^([0-9]+)\s*([A-Z]{3,6})$`)

// ParseCoin parses the human readable representation of a coin. The ticker
// may be separated from the amount by white spaces, "10USDV" and "10 USDV"
// are both valid.
func ParseCoin(raw string) (Coin, error) {
	chunks := coinp.FindStringSubmatch(strings.TrimSpace(raw))
	if chunks == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin %q", raw)
	}
	amount, err := strconv.ParseUint(chunks[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %q", chunks[1])
	}
	return NewCoin(amount, chunks[2]), nil
}

// UnmarshalJSON accepts both the object representation and the human
// readable string, for example in genesis files.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseCoin(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Prevent infinite recursion by using a type without custom
	// unmarshaler.
	type coinObj Coin
	var obj coinObj
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(obj)
	return nil
}
