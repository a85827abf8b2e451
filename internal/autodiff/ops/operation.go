// Package ops defines the closed set of scalar operations supported by the
// autodiff engine, with their forward computation and local derivative.
//
// Each operation provides:
//   - Forward: the value of the result given operand values
//   - Backward: the gradient contribution for each operand given the
//     result's gradient (chain rule)
//
// Supported operations:
//   - Add: a + b (d/da = 1, d/db = 1)
//   - Sub: a - b (d/da = 1, d/db = -1)
//   - Mul: a * b (d/da = b, d/db = a)
//   - Div: a / b (d/da = 1/b, d/db = -a/b²)
//   - Neg: -a (d/da = -1)
//   - Pow: a^k for a fixed exponent k (d/da = k·a^(k-1))
//   - ReLU: max(0, a) (d/da = 1 if a > 0, else 0)
//   - Tanh: tanh(a) (d/da = 1 - tanh²(a))
//   - Exp: e^a (d/da = e^a)
package ops

import (
	"fmt"
	"strconv"
)

// Kind tags how a node was produced.
type Kind uint8

// Operation kinds. Leaf marks inputs and parameters.
const (
	Leaf Kind = iota
	Add
	Sub
	Mul
	Div
	Neg
	Pow
	ReLU
	Tanh
	Exp
)

var kindNames = [...]string{
	Leaf: "leaf",
	Add:  "add",
	Sub:  "sub",
	Mul:  "mul",
	Div:  "div",
	Neg:  "neg",
	Pow:  "pow",
	ReLU: "relu",
	Tanh: "tanh",
	Exp:  "exp",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Arity returns the number of operands of the kind.
func (k Kind) Arity() int {
	switch k {
	case Leaf:
		return 0
	case Add, Sub, Mul, Div:
		return 2
	case Neg, Pow, ReLU, Tanh, Exp:
		return 1
	default:
		panic(fmt.Sprintf("ops: unknown kind %d", k))
	}
}

// Op is an operation tag together with its fixed argument.
// Exponent is only meaningful for Pow.
type Op struct {
	Kind     Kind
	Exponent float64
}

// PowOp returns the Pow operation with exponent k.
func PowOp(k float64) Op {
	return Op{Kind: Pow, Exponent: k}
}

// String returns the label used when rendering the graph.
func (o Op) String() string {
	switch o.Kind {
	case Leaf:
		return ""
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Neg:
		return "neg"
	case Pow:
		return "pow" + strconv.FormatFloat(o.Exponent, 'g', -1, 64)
	case ReLU:
		return "ReLU"
	default:
		return o.Kind.String()
	}
}

// Forward computes the result of o applied to a and b.
// Unary operations ignore b. Floating-point exceptional values propagate.
func Forward(o Op, a, b float64) float64 {
	switch o.Kind {
	case Add:
		return add(a, b)
	case Sub:
		return sub(a, b)
	case Mul:
		return mul(a, b)
	case Div:
		return div(a, b)
	case Neg:
		return neg(a)
	case Pow:
		return pow(a, o.Exponent)
	case ReLU:
		return relu(a)
	case Tanh:
		return tanh(a)
	case Exp:
		return exp(a)
	default:
		panic(fmt.Sprintf("ops: forward on %s", o.Kind))
	}
}

// Backward returns the gradient contributions to the operands of o.
//
// a and b are the operand values, out is the result value and grad is the
// accumulated gradient of the result. For unary operations the second
// contribution is always 0.
func Backward(o Op, a, b, out, grad float64) (da, db float64) {
	switch o.Kind {
	case Add:
		return addBackward(grad)
	case Sub:
		return subBackward(grad)
	case Mul:
		return mulBackward(a, b, grad)
	case Div:
		return divBackward(a, b, grad)
	case Neg:
		return negBackward(grad), 0
	case Pow:
		return powBackward(a, o.Exponent, grad), 0
	case ReLU:
		return reluBackward(a, grad), 0
	case Tanh:
		return tanhBackward(out, grad), 0
	case Exp:
		return expBackward(out, grad), 0
	default:
		panic(fmt.Sprintf("ops: backward on %s", o.Kind))
	}
}
