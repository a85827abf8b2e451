package ops

// add computes a + b.
func add(a, b float64) float64 {
	return a + b
}

// addBackward: d(a+b)/da = d(a+b)/db = 1, so the gradient flows unchanged
// to both operands.
func addBackward(grad float64) (float64, float64) {
	return grad, grad
}
