package nn

import "math/rand/v2"

// Uniform draws n values uniformly from [-1, 1).
//
// This is the initialization used for both weights and biases of a neuron.
func Uniform(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.Float64()*2 - 1
	}
	return out
}
