// Package numeric holds the pure integer routines exposed by the service:
// factorial, primality and addition. Every function is safe for concurrent use.
package numeric

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// MaxFactorialInput is the largest n whose factorial fits in a uint64.
const MaxFactorialInput = 20

var (
	// ErrOverflow is returned when a result does not fit the fixed-width return type.
	ErrOverflow = errors.New("result overflows uint64")
	// ErrInputRange is returned for inputs beyond what big.Int.MulRange accepts.
	ErrInputRange = errors.New("input out of range")
)

// Factorial returns n! with 0! = 1! = 1.
// For n > MaxFactorialInput it returns 0 and an error wrapping ErrOverflow.
func Factorial(n uint64) (uint64, error) {
	if n > MaxFactorialInput {
		return 0, fmt.Errorf("factorial(%d): %w", n, ErrOverflow)
	}
	return factorial(n), nil
}

func factorial(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return n * factorial(n-1)
}

// FactorialBig returns n! as an arbitrary-precision integer.
// n above math.MaxInt64 returns an error wrapping ErrInputRange.
func FactorialBig(n uint64) (*big.Int, error) {
	if n > math.MaxInt64 {
		return nil, fmt.Errorf("factorial(%d): %w", n, ErrInputRange)
	}
	if n <= 1 {
		return big.NewInt(1), nil
	}
	return new(big.Int).MulRange(1, int64(n)), nil
}
