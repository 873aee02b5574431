package stats

import "golang.org/x/exp/constraints"

// Number is the set of numeric kinds a paired difference may have. Every
// member supports subtraction, negation, ordering and has a zero value.
type Number interface {
	constraints.Signed | constraints.Float
}

// Abs returns the absolute value of v.
//
// For the most negative value of a signed integer kind the result overflows
// back to v, use CompareAbs when that matters. -0 is returned unchanged.
func Abs[T Number](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// CompareAbs orders a and b by absolute value, ignoring sign. It returns -1
// if |a| < |b|, +1 if |a| > |b| and 0 otherwise.
//
// NaN is not a supported input. Incomparable values are reported as equal
// rather than failing, which keeps sorting total.
func CompareAbs[T Number](a, b T) int {
	// Compare magnitudes on the same side of zero so that the minimum signed
	// integer, whose negation overflows, still sorts last.
	if a > 0 {
		a = -a
	}
	if b > 0 {
		b = -b
	}
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
