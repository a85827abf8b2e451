package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Neuron computes act(w·x + b) over its inputs.
//
// Example:
//
//	n := nn.NewNeuron(rng, "n", 2, nn.Tanh)
//	nn.Bind(n, f)
//	out := n.Call(f.Leaves(2, 0))
type Neuron struct {
	weights []*Parameter
	bias    *Parameter
	act     Activation
}

// NewNeuron creates a neuron with nin inputs. Weights and bias are drawn
// from Uniform. Parameters are named "<name>.w<i>" and "<name>.b".
func NewNeuron(rng *rand.Rand, name string, nin int, act Activation) *Neuron {
	init := Uniform(rng, nin+1)
	weights := make([]*Parameter, nin)
	for i := range weights {
		weights[i] = NewParameter(fmt.Sprintf("%s.w%d", name, i), init[i])
	}
	return &Neuron{
		weights: weights,
		bias:    NewParameter(name+".b", init[nin]),
		act:     act,
	}
}

// Weights returns the weight parameters.
func (n *Neuron) Weights() []*Parameter {
	return n.weights
}

// Bias returns the bias parameter.
func (n *Neuron) Bias() *Parameter {
	return n.bias
}

// Activation returns the neuron's activation.
func (n *Neuron) Activation() Activation {
	return n.act
}

// Call returns act(b + Σ wᵢ·xᵢ). It panics with ErrShapeMismatch when
// len(x) differs from the number of weights.
func (n *Neuron) Call(x []autodiff.Value) autodiff.Value {
	if len(x) != len(n.weights) {
		panic(fmt.Errorf("%w: neuron has %d inputs, got %d", ErrShapeMismatch, len(n.weights), len(x)))
	}
	act := n.bias.Value()
	for i, w := range n.weights {
		act = act.Add(w.Value().Mul(x[i]))
	}
	return n.act.Apply(act)
}

// Forward implements Module with a single output.
func (n *Neuron) Forward(x []autodiff.Value) []autodiff.Value {
	return []autodiff.Value{n.Call(x)}
}

// Parameters returns the weights followed by the bias.
func (n *Neuron) Parameters() []*Parameter {
	params := make([]*Parameter, 0, len(n.weights)+1)
	params = append(params, n.weights...)
	return append(params, n.bias)
}

// String describes the neuron.
func (n *Neuron) String() string {
	return fmt.Sprintf("%sNeuron(%d)", titleActivation[n.act], len(n.weights))
}

var titleActivation = map[Activation]string{
	Tanh:   "Tanh",
	ReLU:   "ReLU",
	Linear: "Linear",
}
