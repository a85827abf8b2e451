// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimizers for nn parameters.
//
// Example:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05})
//	for step := range steps {
//	    optimizer.ZeroGrad()
//	    // bind, forward, backward, collect
//	    optimizer.Step()
//	}
package optim

import (
	"github.com/born-ml/micrograd/internal/optim"
	"github.com/born-ml/micrograd/nn"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Scheduler is an optimizer with an adjustable learning rate.
type Scheduler = optim.Scheduler

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGD(
//	    model.Parameters(),
//	    optim.SGDConfig{
//	        LR:       0.01,
//	        Momentum: 0.9,
//	    },
//	)
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam (Adaptive Moment Estimation)

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// GradNorm returns the L2 norm of the gradients of params.
func GradNorm(params []*nn.Parameter) float64 {
	return optim.GradNorm(params)
}

// ClipGradNorm rescales gradients to an L2 norm of at most maxNorm.
func ClipGradNorm(params []*nn.Parameter, maxNorm float64) float64 {
	return optim.ClipGradNorm(params, maxNorm)
}

// LinearDecay interpolates a learning rate from start to end over total steps.
func LinearDecay(start, end float64, step, total int) float64 {
	return optim.LinearDecay(start, end, step, total)
}
