package autodiff

import (
	"fmt"

	"github.com/born-ml/micrograd/internal/arena"
	"github.com/born-ml/micrograd/internal/autodiff/ops"
)

// Value is a handle to a node of the computation graph.
//
// Values are small and meant to be copied. Two handles are equal exactly
// when they denote the same node, so Value can be used as a map key.
// All handles to a node observe the same gradient.
//
// The zero Value is not bound to any arena and panics on use, as does any
// Value whose arena has been released.
type Value struct {
	store Store
	id    arena.ID
}

func (v Value) node() *Node {
	return v.store.Get(v.id)
}

// ID returns the node's identity within its arena.
func (v Value) ID() arena.ID {
	return v.id
}

// Store returns the arena holding the node.
func (v Value) Store() Store {
	return v.store
}

// Data returns the forward value.
func (v Value) Data() float64 {
	return v.node().value
}

// Grad returns the accumulated gradient.
func (v Value) Grad() float64 {
	return v.node().grad
}

// Op returns the operation that produced the node.
func (v Value) Op() ops.Op {
	return v.node().op
}

// IsLeaf reports whether the node has no operands.
func (v Value) IsLeaf() bool {
	return v.node().op.Kind == ops.Leaf
}

// Operands returns the nodes this node was computed from, in order.
func (v Value) Operands() []Value {
	n := v.node()
	arity := n.op.Kind.Arity()
	out := make([]Value, arity)
	for i := 0; i < arity; i++ {
		out[i] = Value{store: v.store, id: n.operands[i]}
	}
	return out
}

// String formats the value as "Value(data=<data>, grad=<grad>)".
func (v Value) String() string {
	n := v.node()
	return fmt.Sprintf("Value(data=%v, grad=%v)", n.value, n.grad)
}

// constant mints a leaf in v's arena. Its gradient is computed but never read.
func (v Value) constant(c float64) Value {
	return leaf(v.store, c)
}

func (v Value) unary(op ops.Op) Value {
	out := ops.Forward(op, v.node().value, 0)
	id := v.store.Alloc(Node{
		value:    out,
		op:       op,
		operands: [2]arena.ID{v.id},
	})
	return Value{store: v.store, id: id}
}

func (v Value) binary(op ops.Op, other Value) Value {
	if v.store != other.store {
		panic(ErrForeignOperand)
	}
	out := ops.Forward(op, v.node().value, other.node().value)
	id := v.store.Alloc(Node{
		value:    out,
		op:       op,
		operands: [2]arena.ID{v.id, other.id},
	})
	return Value{store: v.store, id: id}
}

// Add returns v + other.
func (v Value) Add(other Value) Value {
	return v.binary(ops.Op{Kind: ops.Add}, other)
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return v.binary(ops.Op{Kind: ops.Sub}, other)
}

// Mul returns v * other.
func (v Value) Mul(other Value) Value {
	return v.binary(ops.Op{Kind: ops.Mul}, other)
}

// Div returns v / other. A zero denominator yields ±Inf or NaN.
func (v Value) Div(other Value) Value {
	return v.binary(ops.Op{Kind: ops.Div}, other)
}

// Neg returns -v.
func (v Value) Neg() Value {
	return v.unary(ops.Op{Kind: ops.Neg})
}

// Pow returns v raised to the fixed exponent k.
func (v Value) Pow(k float64) Value {
	return v.unary(ops.PowOp(k))
}

// ReLU returns max(0, v).
func (v Value) ReLU() Value {
	return v.unary(ops.Op{Kind: ops.ReLU})
}

// Tanh returns tanh(v).
func (v Value) Tanh() Value {
	return v.unary(ops.Op{Kind: ops.Tanh})
}

// Exp returns e^v.
func (v Value) Exp() Value {
	return v.unary(ops.Op{Kind: ops.Exp})
}

// AddScalar returns v + c. It also serves c + v.
func (v Value) AddScalar(c float64) Value {
	return v.Add(v.constant(c))
}

// SubScalar returns v - c.
func (v Value) SubScalar(c float64) Value {
	return v.Sub(v.constant(c))
}

// MulScalar returns v * c. It also serves c * v.
func (v Value) MulScalar(c float64) Value {
	return v.Mul(v.constant(c))
}

// DivScalar returns v / c.
func (v Value) DivScalar(c float64) Value {
	return v.Div(v.constant(c))
}

// RSub returns c - v.
func (v Value) RSub(c float64) Value {
	return v.constant(c).Sub(v)
}

// RDiv returns c / v.
func (v Value) RDiv(c float64) Value {
	return v.constant(c).Div(v)
}

// Sum folds values with Add, left to right. It panics with ErrNoValues
// when values is empty.
func Sum(values ...Value) Value {
	if len(values) == 0 {
		panic(ErrNoValues)
	}
	acc := values[0]
	for _, x := range values[1:] {
		acc = acc.Add(x)
	}
	return acc
}

// Backward computes the gradient of v with respect to every ancestor.
// See Tape.Backward.
func (v Value) Backward() {
	NewTape(v).Backward()
}

// ZeroGrad resets the gradient of v and all of its ancestors to zero.
func (v Value) ZeroGrad() {
	NewTape(v).ZeroGrad()
}
