package ops

// div computes a / b. Division by zero yields ±Inf or NaN.
func div(a, b float64) float64 {
	return a / b
}

// divBackward uses the closed forms of a * b^-1:
//   - d(a/b)/da = 1/b
//   - d(a/b)/db = -a/b²
func divBackward(a, b, grad float64) (float64, float64) {
	return grad / b, -(a / (b * b)) * grad
}
