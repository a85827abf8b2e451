package nn

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Layer is a fully connected layer of independent neurons sharing the
// same inputs.
type Layer struct {
	neurons []*Neuron
}

// NewLayer creates a layer of nout neurons with nin inputs each.
// Neuron j is named "<name>.neuron<j>".
func NewLayer(rng *rand.Rand, name string, nin, nout int, act Activation) *Layer {
	neurons := make([]*Neuron, nout)
	for j := range neurons {
		neurons[j] = NewNeuron(rng, fmt.Sprintf("%s.neuron%d", name, j), nin, act)
	}
	return &Layer{neurons: neurons}
}

// Neurons returns the layer's neurons.
func (l *Layer) Neurons() []*Neuron {
	return l.neurons
}

// Forward returns one output per neuron.
func (l *Layer) Forward(x []autodiff.Value) []autodiff.Value {
	out := make([]autodiff.Value, len(l.neurons))
	for j, n := range l.neurons {
		out[j] = n.Call(x)
	}
	return out
}

// Parameters returns the parameters of every neuron in order.
func (l *Layer) Parameters() []*Parameter {
	var params []*Parameter
	for _, n := range l.neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}

func (l *Layer) String() string {
	parts := make([]string, len(l.neurons))
	for j, n := range l.neurons {
		parts[j] = n.String()
	}
	return "Layer of [" + strings.Join(parts, ", ") + "]"
}
