package ops

// sub computes a - b.
func sub(a, b float64) float64 {
	return a - b
}

// subBackward: d(a-b)/da = 1, d(a-b)/db = -1.
func subBackward(grad float64) (float64, float64) {
	return grad, -grad
}
