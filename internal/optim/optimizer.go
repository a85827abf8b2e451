// Package optim implements optimization algorithms for training neural networks.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - GradNorm and ClipGradNorm over a parameter list
//
// Optimizers read the gradients accumulated on nn.Parameter values, so a
// training step collects gradients before calling Step.
//
// Example usage:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{
//	    LR: 0.05,
//	})
//
//	for step := range steps {
//	    lt, f := autodiff.NewSession()
//	    nn.Bind(model, f)
//	    loss := computeLoss(model, f, data)
//
//	    optimizer.ZeroGrad()
//	    loss.Backward()
//	    nn.Collect(model)
//	    lt.Release()
//
//	    optimizer.Step()
//	}
package optim

import (
	"math"

	"github.com/born-ml/micrograd/internal/nn"
	"gonum.org/v1/gonum/floats"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies gradient updates to all parameters, reading the
	// gradient each parameter has accumulated.
	Step()

	// ZeroGrad clears all parameter gradients.
	//
	// This should be called before each backward pass to prevent
	// gradient accumulation from previous iterations.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// Scheduler is an optimizer whose learning rate can be changed between steps.
type Scheduler interface {
	Optimizer
	SetLR(lr float64)
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// gradients copies the gradient of every parameter into dst.
func gradients(params []*nn.Parameter, dst []float64) []float64 {
	dst = dst[:0]
	for _, p := range params {
		dst = append(dst, p.Grad())
	}
	return dst
}

func data(params []*nn.Parameter, dst []float64) []float64 {
	dst = dst[:0]
	for _, p := range params {
		dst = append(dst, p.Data())
	}
	return dst
}

func setData(params []*nn.Parameter, src []float64) {
	for i, p := range params {
		p.SetData(src[i])
	}
}

// GradNorm returns the L2 norm of the gradient vector of params.
func GradNorm(params []*nn.Parameter) float64 {
	return floats.Norm(gradients(params, nil), 2)
}

// ClipGradNorm rescales the gradients of params so that their L2 norm is at
// most maxNorm. It returns the norm before clipping.
func ClipGradNorm(params []*nn.Parameter, maxNorm float64) float64 {
	g := gradients(params, nil)
	norm := floats.Norm(g, 2)
	if norm <= maxNorm || norm == 0 || math.IsNaN(norm) {
		return norm
	}
	floats.Scale(maxNorm/norm, g)
	for i, p := range params {
		p.SetGrad(g[i])
	}
	return norm
}

// LinearDecay interpolates the learning rate from start to end over total
// steps. Steps past total return end.
func LinearDecay(start, end float64, step, total int) float64 {
	if total <= 0 || step >= total {
		return end
	}
	frac := float64(step) / float64(total)
	return start + (end-start)*frac
}
