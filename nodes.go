package calculator

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Node is a node in an expression tree. A Node is exactly one of a number, a
// variable reference, or a named operation applied to child nodes. Nodes are
// never modified after construction, so trees may freely share subtrees.
type Node struct {
	kind Kind

	num  float64
	name string
	args []*Node
}

// Kind identifies the variant of a Node.
type Kind int8

const (
	kindNone Kind = iota

	KindNumber    // Value is the number
	KindVariable  // Name is the variable
	KindOperation // Name is the operator or function, Args are its operands
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindVariable:
		return "Variable"
	case KindOperation:
		return "Operation"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operation names understood by Evaluate.
const (
	OpAdd = "+"
	OpSub = "-"
	OpMul = "*"
	OpDiv = "/"
	OpPow = "^"
	OpNeg = "negate"
	OpSin = "sin"
	OpCos = "cos"
)

// Operation names of calculator commands. They are ordinary operations in
// the tree, recognized only by the entry points that handle them.
const (
	CmdToDouble = "toDouble"
	CmdSimplify = "simplify"
	CmdPlot     = "plot"
)

// Num creates a number node.
func Num(v float64) *Node {
	return &Node{kind: KindNumber, num: v}
}

// Var creates a variable reference.
func Var(name string) *Node {
	return &Node{kind: KindVariable, name: name}
}

// Op creates an operation node. The args slice is copied.
func Op(name string, args ...*Node) *Node {
	return &Node{kind: KindOperation, name: name, args: append([]*Node(nil), args...)}
}

// Kind returns the variant of n.
func (n *Node) Kind() Kind {
	return n.kind
}

// Value returns the value of a number node, or 0 for other kinds.
func (n *Node) Value() float64 {
	return n.num
}

// Name returns the name of a variable or operation, or "" for numbers.
func (n *Node) Name() string {
	return n.name
}

// Len returns the number of operands of an operation.
func (n *Node) Len() int {
	return len(n.args)
}

// Arg returns the i'th operand of an operation.
func (n *Node) Arg(i int) *Node {
	return n.args[i]
}

// Args returns a copy of the operands of an operation.
func (n *Node) Args() []*Node {
	return append([]*Node(nil), n.args...)
}

// IsOp reports whether n is an operation with the given name and number of
// operands.
func (n *Node) IsOp(name string, arity int) bool {
	return n.kind == KindOperation && n.name == name && len(n.args) == arity
}

// Equal reports whether n and m are structurally identical. NaN numbers are
// equal to each other.
func (n *Node) Equal(m *Node) bool {
	if n == m {
		return true
	}
	if n == nil || m == nil || n.kind != m.kind {
		return false
	}
	switch n.kind {
	case KindNumber:
		if math.IsNaN(n.num) {
			return math.IsNaN(m.num)
		}
		return n.num == m.num
	case KindVariable:
		return n.name == m.name
	case KindOperation:
		if n.name != m.name || len(n.args) != len(m.args) {
			return false
		}
		for i, a := range n.args {
			if !a.Equal(m.args[i]) {
				return false
			}
		}
		return true
	default:
		panic("calculator: invalid node kind " + n.kind.String())
	}
}

// Vars returns the sorted distinct variable names referenced in the tree.
func (n *Node) Vars() []string {
	seen := make(map[string]bool)
	n.walkvars(seen)
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (n *Node) walkvars(seen map[string]bool) {
	switch n.kind {
	case KindVariable:
		seen[n.name] = true
	case KindOperation:
		for _, a := range n.args {
			a.walkvars(seen)
		}
	}
}

// String formats the tree as infix text which Parse reads back to a tree
// that evaluates the same. (Negative numbers read back as negations.) Nested
// operations are grouped with alternating round and square brackets.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b, false, true)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder, square, top bool) {
	if !top && n.grouped() {
		var l, r byte = '(', ')'
		if square {
			l, r = '[', ']'
		}
		b.WriteByte(l)
		defer b.WriteByte(r)
	}
	switch n.kind {
	case KindNumber:
		b.WriteString(fmtnum(n.num))
	case KindVariable:
		b.WriteString(n.name)
	case KindOperation:
		if binary(n.name) && len(n.args) == 2 {
			n.args[0].fmt(b, !square, false)
			b.WriteByte(' ')
			b.WriteString(n.name)
			b.WriteByte(' ')
			n.args[1].fmt(b, !square, false)
			return
		}
		if n.name == OpNeg && len(n.args) == 1 {
			b.WriteByte('-')
			n.args[0].fmt(b, !square, false)
			return
		}
		// Function call syntax. Arguments are complete expressions, so they
		// don't need grouping of their own.
		b.WriteString(n.name)
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b, square, true)
		}
		b.WriteByte(')')
	default:
		// Invalid nodes use invalid characters.
		b.WriteString("$" + n.kind.String() + "$")
	}
}

// grouped reports whether n needs brackets when it appears as an operand.
func (n *Node) grouped() bool {
	switch n.kind {
	case KindNumber:
		// -1 ^ 2 would read back as -(1 ^ 2).
		return math.Signbit(n.num) && !math.IsNaN(n.num)
	case KindOperation:
		return binary(n.name) && len(n.args) == 2 || n.name == OpNeg && len(n.args) == 1
	default:
		return false
	}
}

func binary(name string) bool {
	switch name {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return true
	}
	return false
}

func fmtnum(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		// Not parseable, but there is no literal that evaluates to NaN.
		return "NaN"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
