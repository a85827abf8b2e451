package ops

// relu computes max(0, a).
func relu(a float64) float64 {
	if a < 0 {
		return 0
	}
	return a
}

// reluBackward passes the gradient through only where the input was positive.
func reluBackward(a, grad float64) float64 {
	if a > 0 {
		return grad
	}
	return 0
}
