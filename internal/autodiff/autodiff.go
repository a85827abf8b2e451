// Package autodiff implements a scalar reverse-mode automatic differentiation engine.
//
// Every computed quantity is a Node living in an arena. Values are cheap
// handles to nodes; applying an operation to values eagerly computes the
// result and records a new node that references its operands, growing a DAG.
//
// Architecture:
//   - Arena: owns all nodes of a session (see internal/arena)
//   - Factory: mints leaf nodes (inputs, parameters) into the arena
//   - Value: comparable handle, node identity is handle equality
//   - Tape: topological order of the nodes reachable from a root, walked in
//     reverse to propagate gradients with the chain rule
//
// Usage:
//
//	lt, f := autodiff.NewSession()
//	defer lt.Release()
//
//	x := f.Leaf(3.0)
//	y := x.Mul(x).AddScalar(1) // y = x² + 1
//	y.Backward()
//	fmt.Println(x.Grad()) // dy/dx = 2x = 6
package autodiff

import (
	"errors"

	"github.com/born-ml/micrograd/internal/arena"
	"github.com/born-ml/micrograd/internal/autodiff/ops"
)

var (
	// ErrForeignOperand is the panic value used when an operation combines
	// values from different arenas.
	ErrForeignOperand = errors.New("autodiff: operands belong to different arenas")

	// ErrNoValues is the panic value used by Sum on an empty list.
	ErrNoValues = errors.New("autodiff: no values")
)

// Lifetime owns the arena of a session.
type Lifetime = arena.Lifetime[Node]

// Store is a reference to the arena that holds a session's nodes.
type Store = arena.Ref[Node]

// Node is a vertex of the computation graph.
//
// value is written once at construction. grad is mutated only by the
// backward pass and by ZeroGrad.
type Node struct {
	value    float64
	grad     float64
	op       ops.Op
	operands [2]arena.ID
}

// NewSession creates a fresh arena and a factory bound to it.
// Release the returned Lifetime to end the session.
func NewSession() (*Lifetime, *Factory) {
	lt, store := arena.Build[Node]()
	return lt, NewFactory(store)
}

// Factory mints leaf nodes into an arena.
type Factory struct {
	store Store
}

// NewFactory returns a factory bound to store.
func NewFactory(store Store) *Factory {
	return &Factory{store: store}
}

// Leaf creates a leaf node holding x with a zero gradient.
func (f *Factory) Leaf(x float64) Value {
	return leaf(f.store, x)
}

// Leaves creates one leaf per element of xs.
func (f *Factory) Leaves(xs ...float64) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = f.Leaf(x)
	}
	return out
}

// Len returns the number of nodes allocated in the factory's arena.
func (f *Factory) Len() int {
	return f.store.Len()
}

// Store returns the arena reference the factory allocates into.
func (f *Factory) Store() Store {
	return f.store
}

func leaf(store Store, x float64) Value {
	id := store.Alloc(Node{value: x})
	return Value{store: store, id: id}
}
