package calculator

import (
	"math"
	"strconv"
)

// Evaluate computes the value of a tree. Variables are looked up in vars and
// their bound nodes evaluated in turn. Arithmetic follows IEEE-754, so e.g.
// division by zero produces an infinity or NaN rather than an error.
//
// The error is a *NameError for a variable missing from vars, an
// *OperationError for an operation Evaluate does not know, or an *ArityError
// for a known operation with the wrong number of operands.
//
// Bindings that refer to each other in a cycle recurse without bound.
func Evaluate(vars Scope, n *Node) (float64, error) {
	switch n.kind {
	case KindNumber:
		return n.num, nil
	case KindVariable:
		v, ok := vars.Get(n.name)
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return Evaluate(vars, v)
	case KindOperation:
		return evalop(vars, n)
	default:
		panic("calculator: invalid node kind " + n.kind.String())
	}
}

// ToDouble evaluates a tree and returns the result as a number node. If n is
// itself a call of toDouble, the call is unwrapped first.
func ToDouble(vars Scope, n *Node) (*Node, error) {
	if n.IsOp(CmdToDouble, 1) {
		n = n.args[0]
	}
	v, err := Evaluate(vars, n)
	if err != nil {
		return nil, err
	}
	return Num(v), nil
}

func evalop(vars Scope, n *Node) (float64, error) {
	want := arity(n.name)
	if want < 0 {
		return 0, &OperationError{Name: n.name}
	}
	if len(n.args) != want {
		return 0, &ArityError{Op: n.name, Want: want, Got: len(n.args)}
	}
	l, err := Evaluate(vars, n.args[0])
	if err != nil {
		return 0, err
	}
	switch n.name {
	case OpNeg:
		return -l, nil
	case OpSin:
		return math.Sin(l), nil
	case OpCos:
		return math.Cos(l), nil
	}
	r, err := Evaluate(vars, n.args[1])
	if err != nil {
		return 0, err
	}
	return binop(n.name, l, r), nil
}

// binop applies a binary operator to evaluated operands.
func binop(op string, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	case OpPow:
		return math.Pow(l, truncexp(r))
	default:
		panic("calculator: invalid binary operator " + strconv.Quote(op))
	}
}

// truncexp truncates an exponent toward zero to a 32-bit integer. NaN
// becomes 0 and out-of-range values saturate.
func truncexp(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= math.MaxInt32:
		return math.MaxInt32
	case x <= math.MinInt32:
		return math.MinInt32
	}
	return math.Trunc(x)
}

// arity returns the number of operands Evaluate requires for an operation,
// or -1 if Evaluate doesn't know the operation.
func arity(op string) int {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return 2
	case OpNeg, OpSin, OpCos:
		return 1
	default:
		return -1
	}
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// OperationError is an error from evaluating an operation that Evaluate does
// not know.
type OperationError struct {
	// Name is the operation name.
	Name string
}

func (err *OperationError) Error() string {
	return "unknown operation: " + strconv.Quote(err.Name)
}

// ArityError is an error from an operation applied to the wrong number of
// operands.
type ArityError struct {
	// Op is the operation name.
	Op string
	// Want and Got are the required and actual numbers of operands.
	Want, Got int
}

func (err *ArityError) Error() string {
	return "operation " + strconv.Quote(err.Op) + " takes " + strconv.Itoa(err.Want) + " operands, not " + strconv.Itoa(err.Got)
}
