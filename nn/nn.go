// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/micrograd/autodiff"
	"github.com/born-ml/micrograd/internal/nn"
)

// Module interface defines the common interface for all neural network modules.
type Module = nn.Module

// Parameter represents a trainable scalar.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and value.
func NewParameter(name string, data float64) *Parameter {
	return nn.NewParameter(name, data)
}

// Activation is the non-linearity applied by a neuron.
type Activation = nn.Activation

// Activations.
const (
	Tanh   = nn.Tanh
	ReLU   = nn.ReLU
	Linear = nn.Linear
)

// ParseActivation returns the activation named "tanh", "relu" or "linear".
func ParseActivation(name string) (Activation, error) {
	return nn.ParseActivation(name)
}

var (
	// ErrShapeMismatch is the panic value raised on input size mismatches.
	ErrShapeMismatch = nn.ErrShapeMismatch
	// ErrUnbound is the panic value raised when an unbound parameter is used.
	ErrUnbound = nn.ErrUnbound
)

// Layers

// Neuron computes act(w·x + b).
type Neuron = nn.Neuron

// NewNeuron creates a neuron with nin uniformly initialized weights.
func NewNeuron(rng *rand.Rand, name string, nin int, act Activation) *Neuron {
	return nn.NewNeuron(rng, name, nin, act)
}

// Layer is a fully connected layer of neurons.
type Layer = nn.Layer

// NewLayer creates a layer of nout neurons with nin inputs each.
func NewLayer(rng *rand.Rand, name string, nin, nout int, act Activation) *Layer {
	return nn.NewLayer(rng, name, nin, nout, act)
}

// Sequential chains modules.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// MLP is a multi-layer perceptron.
type MLP = nn.MLP

// MLPOption configures NewMLP.
type MLPOption = nn.MLPOption

// NewMLP creates an MLP with nin inputs and one layer per entry of nouts.
//
// Example:
//
//	model := nn.NewMLP(rng, 2, []int{16, 16, 1}, nn.ReLU, nn.WithLinearOutput())
func NewMLP(rng *rand.Rand, nin int, nouts []int, act Activation, opts ...MLPOption) *MLP {
	return nn.NewMLP(rng, nin, nouts, act, opts...)
}

// WithLinearOutput makes the last layer of an MLP linear.
func WithLinearOutput() MLPOption {
	return nn.WithLinearOutput()
}

// Module helpers

// Bind binds every parameter of m as a leaf of f.
func Bind(m Module, f *autodiff.Factory) {
	nn.Bind(m, f)
}

// Collect folds the gradients of every bound parameter of m back into it.
func Collect(m Module) {
	nn.Collect(m)
}

// ZeroGrad clears the gradients of every parameter of m.
func ZeroGrad(m Module) {
	nn.ZeroGrad(m)
}

// NumParameters returns the number of trainable scalars in m.
func NumParameters(m Module) int {
	return nn.NumParameters(m)
}

// StateDict returns parameter values keyed by name.
func StateDict(m Module) map[string]float64 {
	return nn.StateDict(m)
}

// LoadStateDict sets parameter values from a state dictionary.
func LoadStateDict(m Module, state map[string]float64) error {
	return nn.LoadStateDict(m, state)
}

// Losses

// MSELoss computes mean((prediction - target)²).
func MSELoss(predictions []autodiff.Value, targets []float64) autodiff.Value {
	return nn.MSELoss(predictions, targets)
}

// HingeLoss computes mean(max(0, 1 - label·score)).
func HingeLoss(scores []autodiff.Value, labels []float64) autodiff.Value {
	return nn.HingeLoss(scores, labels)
}

// Accuracy returns the fraction of scores whose sign matches the label.
func Accuracy(scores []autodiff.Value, labels []float64) float64 {
	return nn.Accuracy(scores, labels)
}
