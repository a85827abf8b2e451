package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Activation is the non-linearity applied by a neuron to its weighted sum.
type Activation int

const (
	// Tanh squashes values to the range (-1, 1).
	Tanh Activation = iota
	// ReLU applies max(0, x).
	ReLU
	// Linear leaves the weighted sum unchanged.
	Linear
)

var activationNames = map[Activation]string{
	Tanh:   "tanh",
	ReLU:   "relu",
	Linear: "linear",
}

// String returns the lower-case activation name.
func (a Activation) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Activation(%d)", int(a))
}

// Apply applies the activation to v.
func (a Activation) Apply(v autodiff.Value) autodiff.Value {
	switch a {
	case Tanh:
		return v.Tanh()
	case ReLU:
		return v.ReLU()
	case Linear:
		return v
	default:
		panic(fmt.Sprintf("nn: unknown activation %d", int(a)))
	}
}

// ParseActivation returns the activation with the given name
// ("tanh", "relu" or "linear"), ignoring case.
func ParseActivation(name string) (Activation, error) {
	for a, n := range activationNames {
		if strings.EqualFold(n, name) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("nn: unknown activation %q", name)
}
