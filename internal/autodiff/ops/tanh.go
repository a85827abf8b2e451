package ops

import "math"

func tanh(a float64) float64 {
	return math.Tanh(a)
}

// tanhBackward: d(tanh(a))/da = 1 - tanh²(a), computed from the output.
func tanhBackward(out, grad float64) float64 {
	return (1 - out*out) * grad
}
