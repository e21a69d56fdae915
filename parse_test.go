package calculator

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"testing"
)

var testfns = []ParseOption{
	DisableDefaultFuncs(),
	ParseFunc("one", Fixed(1)),
	ParseFunc("two", Fixed(2)),
	ParseFunc("onetwo", Fixed(1, 2)),
	ParseFunc("five", Fixed(5)),
}

func TestOpPrecsExist(t *testing.T) {
	for _, r := range Operators {
		b := infix(string(r))
		u := prefix(string(r))
		if b.op == "" && u.op == "" {
			t.Errorf("no operator for %c", r)
		}
	}
}

func TestTermPrecMatchesMultiplication(t *testing.T) {
	if p := infix("*").prec; p != termprec.prec {
		t.Errorf("terms have prec %d but * has prec %d", termprec.prec, p)
	}
	if p := infix("×").prec; p != termprec.prec {
		t.Errorf("terms have prec %d but × has prec %d", termprec.prec, p)
	}
}

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"square", "[x]", "x"},
		{"curly", "{x}", "x"},
		{"multi", "([{{[((x))]}}])", "x"},

		{"plus", "+x", "x"},
		{"add", "x+y", "((x)+(y))"},
		{"sub", "x-y", "((x)-(y))"},
		{"mul", "x*y", "((x)*(y))"},
		{"div", "x/y", "((x)/(y))"},
		{"pow", "x^y", "((x)^(y))"},
		{"altmul", "x×y", "x*y"},
		{"altdiv", "x÷y", "x/y"},
		{"terms", "x y", "x*y"},
		{"parenterms", "x(y)", "x*y"},
		{"numterms", "2 x", "2*x"},
		{"spaced", " x\t+\ny ", "x+y"},

		{"call1-bare", "one x", "one(x)"},
		{"call1-terms", "one a b c * d", "one(a b c) * d"},
		{"call1-plus", "one + x", "one(+x)"},
		{"call1-neg", "one -x", "one(-x)"},
		{"call1-add", "one x + y", "one(x) + y"},
		{"call1-exp", "one x^y", "one(x^y)"},
		{"call1-parenterms", "one(x) y", "(one(x))*y"},
		{"call1-parenexp", "one(x)^y", "(one(x))^y"},
		{"call1-afterterm", "x one y", "x*(one(y))"},
		{"negcall", "-one x", "-(one(x))"},
		{"call2", "two(a, b)", "two(a; b)"},
		{"call5", "five(a; b; c; d; e)", "five(a, b, c, d, e)"},
		{"callargs", "two(a+b, c d)", "two((a+b), (c*d))"},
		{"callnested", "two(one x, one(y))", "two(one(x), one y)"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"pow4", "w^x^y^z", "w^(x^(y^z))"},
		{"terms4", "w x y z", "w*(x*(y*z))"},

		{"negpow", "-1^n", "-(1^n)"},
		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"descasc", "w^x*y+z+a*b^c", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c", "w+((x*(y^(z^a)))*b)+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"powparen", "x^y(z)", "(x^y)*z"},
		{"powneg", "x^-1", "x^(-1)"},
		{"powterms", "x y^z", "x*(y^z)"},
		{"pownegpow", "x^-y^-z", "x^(-(y^(-z)))"},
		{"pownegneg", "x^--y", "x^(-(-y))"},
		{"subneg", "x - -y", "x-(-y)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.a, testfns...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseString(c.b, testfns...)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			if !a.Equal(b) {
				t.Errorf("mismatched trees:\n\t%q parses %v\n\t%q parses %v", c.a, a, c.b, b)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *Node
	}{
		{"num", "2.5", Num(2.5)},
		{"frac", ".5", Num(0.5)},
		{"exp", "1.5e3", Num(1500)},
		{"var", "x", Var("x")},
		{"neg", "-x", Op(OpNeg, Var("x"))},
		{"negnum", "-1", Op(OpNeg, Num(1))},
		{"sub", "3-1", Op(OpSub, Num(3), Num(1))},
		{"terms", "3 x", Op(OpMul, Num(3), Var("x"))},
		{"inf1", "inf", Num(math.Inf(1))},
		{"inf2", "Inf", Num(math.Inf(1))},
		{"inf3", "∞", Num(math.Inf(1))},
		{"overflow", "1e400", Num(math.Inf(1))},
		{"underflow", "1e-400", Num(0)},
		{"call1", "one(x)", Op("one", Var("x"))},
		{"call12-1", "onetwo x", Op("onetwo", Var("x"))},
		{"call12-2", "onetwo(x, 2)", Op("onetwo", Var("x"), Num(2))},
		{
			"call5",
			"five(a, b; c, d; e)",
			Op("five", Var("a"), Var("b"), Var("c"), Var("d"), Var("e")),
		},
		{
			"poly",
			"2 x^2 - x/4",
			Op(OpSub,
				Op(OpMul, Num(2), Op(OpPow, Var("x"), Num(2))),
				Op(OpDiv, Var("x"), Num(4)),
			),
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, testfns...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !a.Equal(c.n) {
				t.Errorf("mismatched tree:\n\twant %v\n\tgot  %v from %q", c.n, a, c.src)
			}
		})
	}
}

func TestParseDefaultFuncs(t *testing.T) {
	cases := []struct {
		name string
		src  string
		n    *Node
	}{
		{"sin", "sin x", Op(OpSin, Var("x"))},
		{"cos", "cos(2 x)", Op(OpCos, Op(OpMul, Num(2), Var("x")))},
		{"negate", "negate(x)", Op(OpNeg, Var("x"))},
		{"toDouble", "toDouble(1 + 2)", Op(CmdToDouble, Op(OpAdd, Num(1), Num(2)))},
		{"simplify", "simplify x y", Op(CmdSimplify, Op(OpMul, Var("x"), Var("y")))},
		{
			"plot",
			"plot(x^2, x, -1, 1, 0.5)",
			Op(CmdPlot, Op(OpPow, Var("x"), Num(2)), Var("x"), Op(OpNeg, Num(1)), Num(1), Num(0.5)),
		},
		{"sinsin", "sin sin x", Op(OpSin, Op(OpSin, Var("x")))},
		{"tan", "tan x", Op(OpMul, Var("tan"), Var("x"))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if !a.Equal(c.n) {
				t.Errorf("mismatched tree:\n\twant %v\n\tgot  %v from %q", c.n, a, c.src)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"paren", "(x)"},
		{"multi", "([{{[((x))]}}])"},

		{"plus", "+x"},
		{"neg", "-x"},
		{"negnum", "-1"},
		{"add", "x+y"},
		{"sub", "x-y"},
		{"mul", "x*y"},
		{"div", "x/y"},
		{"pow", "x^y"},
		{"altmul", "x×y"},
		{"altdiv", "x÷y"},
		{"terms", "x y"},
		{"parenterms", "x(y)"},
		{"inf", "-∞ + inf"},
		{"big", "1e300 * 1e-7"},

		{"call1-bare", "one x"},
		{"call1-terms", "one a b c * d"},
		{"call1-plus", "one + x"},
		{"call1-add", "one x + y"},
		{"call1-exp", "one x^y"},
		{"call5", "five(a; b; c; d; e)"},
		{"call5-exprs", "five(a+b; b c; -c; d^d; e/2)"},

		{"add4", "w+x+y+z"},
		{"sub4", "w-x-y-z"},
		{"mul4", "w*x*y*z"},
		{"div4", "w/x/y/z"},
		{"pow4", "w^x^y^z"},
		{"terms4", "w x y z"},

		{"negpow", "-1^n"},
		{"desc", "w^x*y+z"},
		{"asc", "w+x*y^z"},
		{"descasc", "w^x*y+z+a*b^c"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"negneg", "--x"},
		{"negsub", "-x-x"},
		{"powparen", "x^y(z)"},
		{"powneg", "x^-1"},
		{"powterms", "x y^z"},
		{"pownegpow", "x^-y^-z"},
		{"pownegneg", "x^--y"},

		{"parentermsplus", "x(y+z)"},
		{"mulparenterms", "x*y(z*w)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, testfns...)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			s := a.String()
			b, err := ParseString(s, testfns...)
			if err != nil {
				t.Fatalf("%q -> %q failed to parse: %v", c.src, s, err)
			}
			if !a.Equal(b) {
				t.Errorf("mismatched trees:\n\t%q parses %v\n\t%q parses %v", c.src, a, s, b)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		res  []string
		excl []string
	}{
		{"empty", "", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, []string{`(?i)\bend\b`}},
		{"blank", "  \n", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`}, nil},
		{"emptyparen", "()", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyterm", "x()", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"emptyoperand", "x*", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"emptyunary", "x*-", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `(?i)\bend\b`}, nil},
		{"left", "(x", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"right", "x)", new(BracketError), []string{`(?i)\bbracket\b`, `\)`}, nil},
		{"mismatch", "(x]", new(BracketError), []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"mismatch-mul", "x*(y]", new(BracketError), []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"mismatch-terms", "x(y]", new(BracketError), []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"nonunary", "*x", new(OperatorError), []string{`(?i)\bunary\b`, `(?i)\bop`, `\*`}, nil},
		{"nonunary-pow", "x^*y", new(OperatorError), []string{`(?i)\bunary\b`, `\*`}, nil},
		{"sep", "x, y", new(SeparatorError), []string{`","`}, nil},
		{"sepbrackets", "(x, y)", new(SeparatorError), []string{`","`}, nil},
		{"semi", "x; y", new(SeparatorError), []string{`";"`}, nil},
		{"call1-0", "one()", new(CallError), []string{`(?i)\bcall\b`, `\bone\b`, `\b((?i)0|zero)\b`}, nil},
		{"call1-eof", "one", new(CallError), []string{`(?i)\bcall\b`, `\bone\b`, `\b((?i)0|zero)\b`}, nil},
		{"call1-close", "(one)", new(CallError), []string{`(?i)\bcall\b`, `\bone\b`}, nil},
		{"call1-pow", "one^x", new(OperatorError), []string{`(?i)\bunary\b`, `\^`}, nil},
		{"call1-pareneof", "one(", new(BracketError), []string{`(?i)\bbracket\b`, `\(`}, nil},
		{"call1-mismatch", "one(x]", new(BracketError), []string{`(?i)\bbracket\b`, `\(`, `]`}, nil},
		{"call1-2", "one(x, y)", new(CallError), []string{`(?i)\bcall\b`, `\bone\b`, `\b2\b`}, nil},
		{"call1-empty", "one(; x)", new(SeparatorError), []string{`";"`}, nil},
		{"call1-empty2", "one(x;)", new(EmptyExpressionError), []string{`(?i)\b(no|empty)\b.*\bexpression\b`, `\)`}, nil},
		{"call5-4", "five(a, b, c, d)", new(CallError), []string{`(?i)\bcall\b`, `\bfive\b`, `\b4\b`}, nil},
		{"call5-bare", "five x", new(CallError), []string{`(?i)\bcall\b`, `\bfive\b`, `\b((?i)1|one)\b`}, nil},
		{"call5-empty", "five(a,,,,b)", new(SeparatorError), []string{`","`}, nil},
		{"lexer", "2^exp(-$)", new(LexError), []string{`\$`}, nil},
		{"lexer-num", "1.2.3", new(LexError), []string{`(?i)\bnumber\b`}, nil},

		{"op-paren", "(b*)", new(EmptyExpressionError), []string{`\)`}, nil},
		{"haskell", "(+)", new(EmptyExpressionError), []string{`\)`}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseString(c.src, testfns...)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T", c.src, c.err, err)
			}
			if err == nil {
				return
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
			for _, re := range c.excl {
				if regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q matches %s", msg, re)
				}
			}
		})
	}
}

func TestDisableDefaultFuncs(t *testing.T) {
	for k := range globalfuncs {
		t.Run(k, func(t *testing.T) {
			src := k + "(x)"
			a, err := ParseString(src, DisableDefaultFuncs())
			if err != nil {
				t.Fatalf("%q failed to parse: %v", src, err)
			}
			want := Op(OpMul, Var(k), Var("x"))
			if !a.Equal(want) {
				t.Errorf("%q parsed to %v", src, a)
			}
		})
	}
}

func TestParseFunc(t *testing.T) {
	a, err := ParseString("sin x + tan x", ParseFunc(OpSin, nil), ParseFunc("tan", Fixed(1)))
	if err != nil {
		t.Fatal(err)
	}
	want := Op(OpAdd, Op(OpMul, Var("sin"), Var("x")), Op("tan", Var("x")))
	if !a.Equal(want) {
		t.Errorf("want %v, got %v", want, a)
	}
	// The options must not leak into later parses.
	if _, ok := globalfuncs["tan"]; ok {
		t.Error("tan added to default functions")
	}
	if _, ok := globalfuncs[OpSin]; !ok {
		t.Error("sin removed from default functions")
	}
	b, err := ParseString("sin x + tan x")
	if err != nil {
		t.Fatal(err)
	}
	want = Op(OpAdd, Op(OpSin, Var("x")), Op(OpMul, Var("tan"), Var("x")))
	if !b.Equal(want) {
		t.Errorf("want %v, got %v", want, b)
	}
}

func TestStopOn(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		stop  string
		trees []string
		errs  []error
	}{
		{"newline", "x\nx", "\n", []string{"x", "x"}, nil},
		{"comma", "x,x", ",", []string{"x", "x"}, nil},
		{"semi", "x;x", ";", []string{"x", "x"}, nil},
		{"num", "1\n1", "\n", []string{"1", "1"}, nil},
		{"multinl", "x\n\nx", "\n", []string{"x", "x"}, nil},
		{"terms", "x y\nz", "\n", []string{"x*y", "z"}, nil},
		{"operator", "x +\ny", "\n", []string{"x+y"}, nil},
		{"unary", "x\n-y", "\n", []string{"x", "-y"}, nil},
		{"space", "1 + 2 3", " ", []string{"1", "2", "3"}, nil},
		{"call1-err", "one\nx", "\n", []string{"", "x"}, []error{new(CallError)}},
		{"call1-brackets", "one(\nx)", "\n", []string{"one(x)"}, nil},
		{"call2-sep", "two(a, b), c", ",", []string{"two(a, b)", "c"}, nil},
		{"start,", ",", ",", []string{"", ""}, []error{new(EmptyExpressionError), new(EmptyExpressionError)}},
		{"start;", ";", ";", []string{"", ""}, []error{new(EmptyExpressionError), new(EmptyExpressionError)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := strings.NewReader(c.src)
			opts := append(testfns[:len(testfns):len(testfns)], StopOn([]rune(c.stop)...))
			for i, s := range c.trees {
				a, err := Parse(src, opts...)
				if err != nil {
					switch {
					case i >= len(c.errs), c.errs[i] == nil:
						t.Errorf("%q iter %d didn't parse: %v", c.src, i, err)
					case reflect.TypeOf(err) != reflect.TypeOf(c.errs[i]):
						t.Errorf("%q iter %d gave wrong error: want %T, got %#v", c.src, i, c.errs[i], err)
					}
					continue
				}
				want, err := ParseString(s, testfns...)
				if err != nil {
					t.Fatalf("%q failed to parse: %v", s, err)
				}
				if !a.Equal(want) {
					t.Errorf("%q iter %d: want %v, got %v", c.src, i, want, a)
				}
			}
			a, err := Parse(src, testfns...)
			if _, ok := err.(*EmptyExpressionError); !ok {
				t.Errorf("%q after %d iters parsed with error %#v and tree %v", c.src, len(c.trees), err, a)
			}
		})
	}
}

func TestStopOnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("StopOn('x') did not panic")
		}
	}()
	StopOn('x')
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^x*y+z+a*b^c"},
		{"descasc-parens", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"ascdesc-parens", "w+((x*(y^(z^a)))*b)+c"},
		{"descasc-nums", "1^1.1*1.1e1+1.1e-1+.1*inf^∞"},
		{"ascdesc-nums", "1+1.1*1.1e1^1.1e-1^.1*inf+∞"},
		{"call1-bare", "one x"},
		{"call5", "five(a; b; c; d; e)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				Parse(&src, testfns...)
			}
		})
	}
}

func TestCaret(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"start", "*x", "*x\n^"},
		{"middle", "1 + $", "1 + $\n    ^"},
		{"end", "1 +", "1 +\n   ^"},
		{"tab", "\tx)", "\tx)\n\t ^"},
		{"wide", "π π)", "π π)\n   ^"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseString(c.src)
			if err == nil {
				t.Fatalf("%q parsed", c.src)
			}
			if got := Caret(c.src, err); got != c.want {
				t.Errorf("caret for %v:\nwant %q\ngot  %q", err, c.want, got)
			}
		})
	}
	if got := Caret("x", &NameError{Name: "x"}); got != "" {
		t.Errorf("caret for non-input error: %q", got)
	}
}
