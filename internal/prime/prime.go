// Package prime implements the trial-division primality check used by the scanner.
package prime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when text cannot be coerced to an integer.
var ErrNotNumeric = errors.New("not a numeric value")

// Integer is the set of types IsPrime accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IsPrime reports whether n is prime.
//
// Every i in [2, n) is tried and the divisors are counted; there is no early
// exit and no square-root bound. The scan is O(n) per candidate.
func IsPrime[T Integer](n T) bool {
	if n < 2 {
		return false
	}
	c := 0
	for i := T(2); i < n; i++ {
		if n%i == 0 {
			c++
		}
	}
	return c == 0
}

// Parse coerces decimal text to an integer. Surrounding whitespace is ignored.
func Parse(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return v, nil
}

// IsPrimeText coerces s to a number and tests it.
func IsPrimeText(s string) (bool, error) {
	n, err := Parse(s)
	if err != nil {
		return false, err
	}
	return IsPrime(n), nil
}
