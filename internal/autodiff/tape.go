package autodiff

import (
	"github.com/born-ml/micrograd/internal/arena"
	"github.com/born-ml/micrograd/internal/autodiff/ops"
)

// Tape holds the topological order of the nodes reachable from a root and
// computes gradients by walking that order in reverse.
//
// Usage:
//
//	tape := autodiff.NewTape(loss)
//	tape.ZeroGrad()
//	tape.Backward()
//
// The graph is immutable once built, so a tape can be replayed for as many
// backward passes as needed.
type Tape struct {
	root  Value
	order []arena.ID // Operands before their consumers, root last
}

// NewTape records the nodes reachable from root.
//
// Algorithm: iterative depth-first search with a visited set keyed by node
// identity. A node is appended only after all of its operands (post-order),
// so each node appears exactly once even when reached through several paths.
func NewTape(root Value) *Tape {
	store := root.store
	visited := make([]bool, store.Len())
	order := make([]arena.ID, 0, 64)

	type frame struct {
		id   arena.ID
		done bool
	}
	stack := []frame{{id: root.id}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.done {
			order = append(order, top.id)
			continue
		}
		if visited[top.id] {
			continue
		}
		visited[top.id] = true

		stack = append(stack, frame{id: top.id, done: true})
		n := store.Get(top.id)
		// Push in reverse so the first operand is explored first.
		for i := n.op.Kind.Arity() - 1; i >= 0; i-- {
			if operand := n.operands[i]; !visited[operand] {
				stack = append(stack, frame{id: operand})
			}
		}
	}

	return &Tape{root: root, order: order}
}

// Root returns the value the tape was recorded from.
func (t *Tape) Root() Value {
	return t.root
}

// Len returns the number of recorded nodes.
func (t *Tape) Len() int {
	return len(t.order)
}

// Order returns the recorded nodes in topological order: every node comes
// after all of its operands, and the root comes last.
func (t *Tape) Order() []Value {
	out := make([]Value, len(t.order))
	for i, id := range t.order {
		out[i] = Value{store: t.root.store, id: id}
	}
	return out
}

// Backward seeds the root gradient with 1 and propagates gradients to every
// recorded node in reverse topological order.
//
// A node is processed only after all of its consumers, so its gradient is
// final before it is pushed to its operands. Gradients of the other nodes are
// not reset first: running Backward twice accumulates. Call ZeroGrad between
// independent passes.
func (t *Tape) Backward() {
	store := t.root.store
	t.root.node().grad = 1

	for i := len(t.order) - 1; i >= 0; i-- {
		n := store.Get(t.order[i])
		if n.op.Kind == ops.Leaf {
			continue
		}

		a := store.Get(n.operands[0])
		var b *Node
		bValue := 0.0
		if n.op.Kind.Arity() == 2 {
			b = store.Get(n.operands[1])
			bValue = b.value
		}

		da, db := ops.Backward(n.op, a.value, bValue, n.value, n.grad)
		a.grad += da
		if b != nil {
			b.grad += db
		}
	}
}

// ZeroGrad resets the gradient of every recorded node to zero.
func (t *Tape) ZeroGrad() {
	store := t.root.store
	for _, id := range t.order {
		store.Get(id).grad = 0
	}
}
