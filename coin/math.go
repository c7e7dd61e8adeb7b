package coin

import (
	"math"

	"github.com/vestnet/vest/errors"
)

// AddUint64 returns the sum of two values or ErrOverflow if the result does
// not fit in uint64.
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// SubUint64 returns a - b or ErrUnderflow if b is greater than a.
func SubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrUnderflow, "%d - %d", a, b)
	}
	return a - b, nil
}
