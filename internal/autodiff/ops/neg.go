package ops

func neg(a float64) float64 {
	return -a
}

func negBackward(grad float64) float64 {
	return -grad
}
