// Package mathx holds the integer arithmetic used for token and reward
// amounts. Nothing here uses floating point.
package mathx

import (
	"errors"
	"math"
	"math/bits"

	"github.com/dmitrijs2005/hypesale/internal/common"
)

var (
	ErrNegative     = errors.New("negative operand")
	ErrDivideByZero = errors.New("division by zero")
	ErrOverflow     = errors.New("integer overflow")
)

// MulDiv returns a*b/c truncated toward zero. The 128-bit intermediate
// product never overflows; the quotient must fit in int64.
func MulDiv(a, b, c int64) (int64, error) {
	if a < 0 || b < 0 || c < 0 {
		return 0, ErrNegative
	}
	if c == 0 {
		return 0, ErrDivideByZero
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi >= uint64(c) {
		return 0, ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, uint64(c))
	if q > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(q), nil
}

// Bps applies a basis-point rate: value * bps / 10000.
//
// Example: Bps(12345, 500) == 617
func Bps(value, bps int64) (int64, error) {
	return MulDiv(value, bps, common.BpsBase)
}

// Mul is an overflow-checked product of two non-negative values.
func Mul(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrNegative
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(lo), nil
}

// Add is an overflow-checked sum of two non-negative values.
func Add(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrNegative
	}
	if a > math.MaxInt64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}
