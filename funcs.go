package calculator

// Func describes how the parser treats a function name.
type Func interface {
	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If a bracketed list of n expressions follows the function, the
	//		parser treats it as an argument list if CanCall(n), and rejects
	//		it otherwise.
	//
	// 	2.	If a bare term follows a function and CanCall(1), then the parser
	//		treats the term as an argument to the function. E.g., "sin x" is
	//		parsed as "sin(x)".
	CanCall(n int) bool
}

type fixed []int

func (f fixed) CanCall(n int) bool {
	for _, v := range f {
		if v == n {
			return true
		}
	}
	return false
}

// Fixed returns a Func callable with exactly any of the given numbers of
// arguments.
func Fixed(n ...int) Func {
	return fixed(append([]int(nil), n...))
}

var globalfuncs = map[string]Func{
	OpNeg: Fixed(1),
	OpSin: Fixed(1),
	OpCos: Fixed(1),

	CmdToDouble: Fixed(1),
	CmdSimplify: Fixed(1),
	// plot(expr, var, min, max, step)
	CmdPlot: Fixed(5),
}
