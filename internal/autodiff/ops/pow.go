package ops

import "math"

// pow computes a^k for a fixed exponent k.
// Negative bases with non-integer exponents yield NaN, as math.Pow does.
func pow(a, k float64) float64 {
	return math.Pow(a, k)
}

// powBackward: d(a^k)/da = k * a^(k-1).
func powBackward(a, k, grad float64) float64 {
	return k * math.Pow(a, k-1) * grad
}
