// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides scalar reverse-mode automatic differentiation.
//
// Values are recorded in an arena owned by a session. Arithmetic on values
// builds a directed acyclic graph; Backward propagates gradients from a
// root to every ancestor.
//
// Example:
//
//	import "github.com/born-ml/micrograd/autodiff"
//
//	func main() {
//	    lt, f := autodiff.NewSession()
//	    defer lt.Release()
//
//	    a := f.Leaf(2)
//	    b := f.Leaf(-3)
//	    c := a.Mul(b).Add(a).Tanh()
//
//	    c.Backward()
//	    fmt.Println(a.Grad(), b.Grad())
//	}
//
// Every value dies with its session: using one after Release panics with
// ErrReleased.
package autodiff

import (
	"github.com/born-ml/micrograd/internal/arena"
	"github.com/born-ml/micrograd/internal/autodiff"
)

// Value is a handle to a node of the computation graph.
type Value = autodiff.Value

// Node is the arena slot behind a Value.
type Node = autodiff.Node

// Factory mints leaf values in an arena.
type Factory = autodiff.Factory

// Lifetime owns an arena. Releasing it invalidates every value inside.
type Lifetime = autodiff.Lifetime

// Store is a non-owning reference to an arena.
type Store = autodiff.Store

// Tape is a recorded topological order of a graph.
type Tape = autodiff.Tape

// Edge is an operand → result link of the graph.
type Edge = autodiff.Edge

var (
	// ErrReleased is the panic value raised when a value outlives its session.
	ErrReleased = arena.ErrReleased
	// ErrForeignOperand is the panic value raised when values from two
	// sessions are combined.
	ErrForeignOperand = autodiff.ErrForeignOperand
	// ErrNoValues is the panic value raised by Sum with no arguments.
	ErrNoValues = autodiff.ErrNoValues
)

// NewSession creates a fresh arena and a factory minting values in it.
// The caller must Release the lifetime when done.
func NewSession() (*Lifetime, *Factory) {
	return autodiff.NewSession()
}

// NewFactory returns a factory minting values in an existing arena.
func NewFactory(store Store) *Factory {
	return autodiff.NewFactory(store)
}

// NewTape records the nodes reachable from root in topological order.
func NewTape(root Value) *Tape {
	return autodiff.NewTape(root)
}

// Trace enumerates the nodes reachable from root and the edges between them.
func Trace(root Value) ([]Value, []Edge) {
	return autodiff.Trace(root)
}

// Sum folds values with Add.
func Sum(values ...Value) Value {
	return autodiff.Sum(values...)
}
