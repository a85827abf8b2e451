package nn

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/autodiff"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's outputs become the next module's inputs, creating a
// sequential pipeline of transformations.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLayer(rng, "0", 3, 4, nn.Tanh),
//	    nn.NewLayer(rng, "1", 4, 1, nn.Linear),
//	)
//
//	outputs := model.Forward(inputs)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{
		modules: modules,
	}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(inputs []autodiff.Value) []autodiff.Value {
	outputs := inputs

	for _, module := range s.modules {
		outputs = module.Forward(outputs)
	}

	return outputs
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter

	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}

	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns a map of parameter names to values.
func StateDict(m Module) map[string]float64 {
	state := make(map[string]float64)

	for _, p := range m.Parameters() {
		state[p.Name()] = p.Data()
	}

	return state
}

// LoadStateDict sets parameter values from a state dictionary.
//
// Every parameter of m must be present; extra keys are an error too.
func LoadStateDict(m Module, state map[string]float64) error {
	params := m.Parameters()
	if len(state) != len(params) {
		return fmt.Errorf("nn: state has %d entries, module has %d parameters", len(state), len(params))
	}

	for _, p := range params {
		x, ok := state[p.Name()]
		if !ok {
			return fmt.Errorf("nn: missing parameter %q", p.Name())
		}
		p.SetData(x)
	}

	return nil
}
