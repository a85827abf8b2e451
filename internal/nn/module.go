// Package nn implements neural network modules on top of the scalar
// autodiff engine.
//
// This package provides the building blocks of a multi-layer perceptron:
//   - Module interface: Base interface for all NN components
//   - Parameter: Trainable scalar that outlives any single graph
//   - Neuron, Layer, MLP: Fully connected building blocks
//   - Activations: Tanh, ReLU, Linear
//   - Loss functions: MSE, Hinge
//   - Sequential: Container for stacking layers
//
// Parameters hold their data outside the graph arena. Each training step
// binds them as fresh leaves of a new session (Bind), runs forward and
// backward, then folds the leaf gradients back (Collect) before the
// session is released.
package nn

import (
	"errors"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// ErrShapeMismatch is the panic value raised when inputs do not have the
// size a module or loss expects.
var ErrShapeMismatch = errors.New("nn: shape mismatch")

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: Compute outputs from inputs
//   - Parameters: Return all trainable parameters
//
// Modules can be composed to build larger networks:
//
//	model := nn.NewSequential(
//	    nn.NewLayer(rng, "0", 3, 4, nn.Tanh),
//	    nn.NewLayer(rng, "1", 4, 1, nn.Linear),
//	)
type Module interface {
	// Forward computes the outputs of the module for the given inputs.
	//
	// Parameters must be bound to the factory that produced the inputs.
	Forward(inputs []autodiff.Value) []autodiff.Value

	// Parameters returns all trainable parameters of this module,
	// in a stable order.
	Parameters() []*Parameter
}

// Bind binds every parameter of m as a leaf of f.
func Bind(m Module, f *autodiff.Factory) {
	for _, p := range m.Parameters() {
		p.Bind(f)
	}
}

// Collect adds the gradient of every bound parameter leaf to the
// parameter's gradient and unbinds it.
func Collect(m Module) {
	for _, p := range m.Parameters() {
		p.Collect()
	}
}

// ZeroGrad clears the gradient of every parameter of m.
func ZeroGrad(m Module) {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}

// NumParameters returns the number of trainable scalars in m.
func NumParameters(m Module) int {
	return len(m.Parameters())
}
