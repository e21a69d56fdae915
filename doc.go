// Package calculator implements the core of a small calculator language:
// expression trees, their evaluation to float64, constant-folding
// simplification, and sampling of one-variable functions for plotting.
//
// The syntax accepted by Parse is intended to be similar to math you'd write
// in your notes. "3 x" is a multiplication, "-2^2" is "-(2^2)", and
// "sin x" calls sin. Trees can also be built directly with Num, Var, and Op.
//
// Variables live in a Context that is passed explicitly to every call. Bound
// values are trees, not just numbers, so a variable may stand for an
// unevaluated expression.
//
package calculator
