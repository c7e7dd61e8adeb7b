package sigs

import "github.com/vestnet/vest/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that
// does not match the signer's nonce.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
