package ops

import "math"

func exp(a float64) float64 {
	return math.Exp(a)
}

// expBackward: d(e^a)/da = e^a, which is the output itself.
func expBackward(out, grad float64) float64 {
	return out * grad
}
