package math

import "math"

// Epsilon is the default tolerance for comparing coordinates that went
// through polygon boolean operations.
const Epsilon = 1e-6

// AlmostEqual reports whether a and b differ by at most eps.
func AlmostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// AlmostBetween reports whether v lies in [min(a,b)-eps, max(a,b)+eps].
func AlmostBetween(v, a, b, eps float64) bool {
	lo, hi := MinMax(a, b)
	return v >= lo-eps && v <= hi+eps
}

// MinMax returns a and b in ascending order.
func MinMax(a, b float64) (float64, float64) {
	if a <= b {
		return a, b
	}
	return b, a
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
