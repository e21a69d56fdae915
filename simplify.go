package calculator

// Simplify rewrites a tree into an equivalent, more reduced one. Bound
// variables are replaced by their values, and additions, subtractions, and
// multiplications of two numbers are folded into a single number. Free
// variables are kept. The input tree is not modified. Calls of simplify
// wrapping n are unwrapped first, however deeply nested.
//
// Divisions and all other operations are never folded, even when their
// operands are numbers: Simplify(sin(2)) is sin(2), and 6/2 stays 6/2.
//
// A bound variable is substituted once, without simplifying the bound value,
// so Simplify is idempotent only when the values in vars are themselves
// simplified.
func Simplify(vars Scope, n *Node) *Node {
	for n.IsOp(CmdSimplify, 1) {
		n = n.args[0]
	}
	return simplify(vars, n)
}

func simplify(vars Scope, n *Node) *Node {
	switch n.kind {
	case KindNumber:
		return n
	case KindVariable:
		if v, ok := vars.Get(n.name); ok {
			return v
		}
		return n
	case KindOperation:
		args := make([]*Node, len(n.args))
		for i, a := range n.args {
			args[i] = simplify(vars, a)
		}
		if foldable(n.name) && len(args) == 2 && args[0].kind == KindNumber && args[1].kind == KindNumber {
			return Num(binop(n.name, args[0].num, args[1].num))
		}
		return &Node{kind: KindOperation, name: n.name, args: args}
	default:
		panic("calculator: invalid node kind " + n.kind.String())
	}
}

// foldable reports whether Simplify computes an operation whose operands
// are both numbers.
func foldable(op string) bool {
	switch op {
	case OpAdd, OpSub, OpMul:
		return true
	}
	return false
}
