// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on scalar values.
//
// # Overview
//
// This package contains:
//   - Layers: Neuron, Layer, MLP
//   - Activations: Tanh, ReLU, Linear
//   - Loss functions: MSELoss, HingeLoss
//   - Utilities: Sequential, Module interface, Parameter, StateDict
//
// # Basic Usage
//
//	rng := rand.New(rand.NewPCG(1337, 0))
//	model := nn.NewMLP(rng, 3, []int{4, 4, 1}, nn.Tanh)
//
//	lt, f := autodiff.NewSession()
//	nn.Bind(model, f)
//	out := model.Forward(f.Leaves(2, 3, -1))
//	loss := nn.MSELoss(out, []float64{1})
//	loss.Backward()
//	nn.Collect(model)
//	lt.Release()
//
// # Parameters
//
// A Parameter keeps its value and gradient outside the graph. Bind mints a
// leaf for the current session and Collect folds the leaf's gradient back
// before the session is released. Optimizers then update the value in
// place.
package nn
