package vesttest

import (
	"testing"

	"github.com/vestnet/vest"
	"github.com/vestnet/vest/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() vest.Condition {
	return NewKey().PublicKey().Condition()
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation.
func ParseAddress(t testing.TB, encodedAddress string) vest.Address {
	t.Helper()

	addr, err := vest.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
