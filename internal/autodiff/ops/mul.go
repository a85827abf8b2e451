package ops

// mul computes a * b.
func mul(a, b float64) float64 {
	return a * b
}

// mulBackward: d(a*b)/da = b, d(a*b)/db = a.
func mulBackward(a, b, grad float64) (float64, float64) {
	return b * grad, a * grad
}
