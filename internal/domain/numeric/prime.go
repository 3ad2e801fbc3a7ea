package numeric

import "math"

// IsPrime reports whether n is prime using trial division by odd numbers
// up to the integer square root of n.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}

	limit := ISqrt(n)
	for i := uint64(3); i <= limit; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// ISqrt returns the largest r such that r*r <= n.
// The float64 estimate is corrected with integer arithmetic, so the result
// is exact for every uint64 including perfect squares near 2^64.
func ISqrt(n uint64) uint64 {
	r := uint64(math.Sqrt(float64(n)))

	// r*r must not be evaluated for r > MaxUint32, it would wrap.
	for r > math.MaxUint32 || r*r > n {
		r--
	}
	for r < math.MaxUint32 && (r+1)*(r+1) <= n {
		r++
	}
	return r
}
