package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// ErrUnbound is the panic value raised when a parameter is used in a graph
// before being bound to a factory.
var ErrUnbound = errors.New("nn: parameter is not bound")

// Parameter represents a trainable scalar in a neural network.
//
// The parameter keeps its data and accumulated gradient outside any graph
// arena, so it survives the release of the session it was used in. Nodes
// of a graph never change value: to take part in a computation the
// parameter is bound as a new leaf.
//
// Example:
//
//	w := nn.NewParameter("w", 0.5)
//
//	lt, f := autodiff.NewSession()
//	y := w.Bind(f).MulScalar(3)
//	y.Backward()
//	w.Collect()
//	lt.Release()
//
//	w.Grad() // 3
type Parameter struct {
	name  string         // Parameter name (e.g., "layer0.neuron1.w2")
	data  float64        // Current value
	grad  float64        // Gradient accumulated by Collect
	value autodiff.Value // Leaf bound for the current step
	bound bool
}

// NewParameter creates a new trainable parameter with the given value.
func NewParameter(name string, data float64) *Parameter {
	return &Parameter{
		name: name,
		data: data,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Data returns the current value.
func (p *Parameter) Data() float64 {
	return p.data
}

// SetData replaces the current value.
//
// This is typically called by the optimizer. A leaf that is already bound
// keeps the value it was created with.
func (p *Parameter) SetData(x float64) {
	p.data = x
}

// Grad returns the gradient accumulated by Collect.
func (p *Parameter) Grad() float64 {
	return p.grad
}

// SetGrad sets the gradient.
func (p *Parameter) SetGrad(g float64) {
	p.grad = g
}

// ZeroGrad clears the gradient.
//
// This should be called before each training iteration to avoid
// accumulating gradients from previous iterations.
func (p *Parameter) ZeroGrad() {
	p.grad = 0
}

// Bind mints a leaf holding the current value in f and returns it.
// Binding again replaces the previous leaf.
func (p *Parameter) Bind(f *autodiff.Factory) autodiff.Value {
	p.value = f.Leaf(p.data)
	p.bound = true
	return p.value
}

// Bound reports whether the parameter is bound to a leaf.
func (p *Parameter) Bound() bool {
	return p.bound
}

// Value returns the bound leaf. It panics with ErrUnbound when the
// parameter is not bound.
func (p *Parameter) Value() autodiff.Value {
	if !p.bound {
		panic(fmt.Errorf("%w: %s", ErrUnbound, p.name))
	}
	return p.value
}

// Collect adds the gradient of the bound leaf to the parameter's gradient
// and unbinds it. It must run before the leaf's session is released.
// Collect on an unbound parameter does nothing.
func (p *Parameter) Collect() {
	if !p.bound {
		return
	}
	p.grad += p.value.Grad()
	p.value = autodiff.Value{}
	p.bound = false
}

// String formats the parameter for debugging.
func (p *Parameter) String() string {
	return fmt.Sprintf("Parameter(%s, data=%v, grad=%v)", p.name, p.data, p.grad)
}
