package invest

import "github.com/vestnet/vest/errors"

var (
	ErrAmountTooSmall       = errors.Register(1100, "amount below minimum")
	ErrAmountTooLarge       = errors.Register(1101, "amount above maximum")
	ErrInvalidReturn        = errors.Register(1102, "invalid expected return")
	ErrInsufficientFunds    = errors.Register(1103, "insufficient funds")
	ErrOpportunityNotActive = errors.Register(1104, "opportunity not active")
	ErrOpportunityNotFunded = errors.Register(1105, "opportunity not funded")
)
