package optim

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/nn"
	"gonum.org/v1/gonum/floats"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR:       0.05,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params   []*nn.Parameter
	lr       float64
	momentum float64
	velocity []float64 // nil until the first step with momentum
	grad     []float64
	data     []float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over params.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
		grad:     make([]float64, 0, len(params)),
		data:     make([]float64, 0, len(params)),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	s.grad = gradients(s.params, s.grad)
	s.data = data(s.params, s.data)

	update := s.grad
	if s.momentum != 0 {
		if s.velocity == nil {
			s.velocity = make([]float64, len(s.params))
		}
		// velocity = momentum * velocity + grad
		floats.Scale(s.momentum, s.velocity)
		floats.Add(s.velocity, s.grad)
		update = s.velocity
	}

	floats.AddScaled(s.data, -s.lr, update)
	setData(s.params, s.data)
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the optimizer state.
//
// For SGD with momentum, this exports the velocity of each parameter
// under "velocity.{param_index}". Without momentum, or before the first
// step, it returns an empty map.
func (s *SGD) StateDict() map[string]float64 {
	state := make(map[string]float64)

	if s.momentum == 0 || s.velocity == nil {
		return state
	}

	for i, v := range s.velocity {
		state[fmt.Sprintf("velocity.%d", i)] = v
	}

	return state
}

// LoadStateDict restores velocities saved by StateDict.
//
// Missing entries start from zero. Keys that name no parameter are an error.
func (s *SGD) LoadStateDict(state map[string]float64) error {
	if s.momentum == 0 {
		return nil
	}

	velocity := make([]float64, len(s.params))
	for key, v := range state {
		var i int
		if _, err := fmt.Sscanf(key, "velocity.%d", &i); err != nil || i < 0 || i >= len(s.params) {
			return fmt.Errorf("optim: unexpected SGD state key %q", key)
		}
		velocity[i] = v
	}
	s.velocity = velocity

	return nil
}
