package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/micrograd/internal/nn"
	"gonum.org/v1/gonum/floats"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int       // Timestep for bias correction
	m      []float64 // First moment estimates
	v      []float64 // Second moment estimates
	grad   []float64
	sq     []float64
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer. Zero fields of config take the
// defaults listed on AdamConfig.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	n := len(params)
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make([]float64, n),
		v:      make([]float64, n),
		grad:   make([]float64, 0, n),
		sq:     make([]float64, n),
	}
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step() {
	a.t++

	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	a.grad = gradients(a.params, a.grad)
	floats.MulTo(a.sq, a.grad, a.grad)

	floats.Scale(a.beta1, a.m)
	floats.AddScaled(a.m, 1-a.beta1, a.grad)
	floats.Scale(a.beta2, a.v)
	floats.AddScaled(a.v, 1-a.beta2, a.sq)

	for i, param := range a.params {
		mHat := a.m[i] / biasCorrection1
		vHat := a.v[i] / biasCorrection2
		param.SetData(param.Data() - a.lr*mHat/(math.Sqrt(vHat)+a.eps))
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// StepCount returns the number of steps taken.
func (a *Adam) StepCount() int {
	return a.t
}

// StateDict returns the timestep and both moment estimates, keyed
// "step", "m.{param_index}" and "v.{param_index}".
func (a *Adam) StateDict() map[string]float64 {
	state := make(map[string]float64, 1+2*len(a.params))
	state["step"] = float64(a.t)
	for i := range a.params {
		state[fmt.Sprintf("m.%d", i)] = a.m[i]
		state[fmt.Sprintf("v.%d", i)] = a.v[i]
	}
	return state
}

// LoadStateDict restores state saved by StateDict.
func (a *Adam) LoadStateDict(state map[string]float64) error {
	step, ok := state["step"]
	if !ok {
		return fmt.Errorf("optim: Adam state has no step")
	}

	m := make([]float64, len(a.params))
	v := make([]float64, len(a.params))
	for i := range a.params {
		mi, okM := state[fmt.Sprintf("m.%d", i)]
		vi, okV := state[fmt.Sprintf("v.%d", i)]
		if !okM || !okV {
			return fmt.Errorf("optim: Adam state missing moments for parameter %d", i)
		}
		m[i], v[i] = mi, vi
	}

	a.t = int(step)
	a.m, a.v = m, v
	return nil
}
