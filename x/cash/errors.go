package cash

import "github.com/vestnet/vest/errors"

var (
	// ErrFrozen is returned when funds are moved from or into a frozen
	// wallet.
	ErrFrozen = errors.Register(1200, "wallet frozen")
)
