package calculator

import (
	"strconv"
	"unicode"
)

// ParseOption changes how Parse reads an expression.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	eofopt struct {
		c, s bool
		ws   string
	}
)

// parsectx is the configuration a parse runs with.
type parsectx struct {
	// funcs maps names read as calls, e.g. sin in sin(x), rather than as
	// variables.
	funcs map[string]Func
	// own indicates that funcs is a copy the parse may modify.
	own bool
	// wseof lists the whitespace runes the lexer reports as end of input.
	wseof string
	// ceof and seof are set when a top-level comma or semicolon ends the
	// expression.
	ceof, seof bool
}

// ParseFunc makes name parse as a call of fn. A nil fn makes name an ordinary
// variable again.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	if !p.own {
		m := make(map[string]Func, len(p.funcs)+1)
		for k, v := range p.funcs {
			m[k] = v
		}
		p.funcs, p.own = m, true
	}
	if o.fn == nil {
		delete(p.funcs, o.name)
	} else {
		p.funcs[o.name] = o.fn
	}
	return p
}

// DisableDefaultFuncs reads the built-in function and command names, such as
// sin and simplify, as variables. Functions added with ParseFunc after it
// still apply.
func DisableDefaultFuncs() ParseOption {
	return disablefns{}
}

type disablefns struct{}

func (disablefns) parseOption(p parsectx) parsectx {
	p.funcs, p.own = map[string]Func{}, true
	return p
}

// StopOn ends an expression at any of chars, leaving the rest of the input
// unread. Only commas, semicolons, and whitespace are allowed. A stop rune
// that appears where an operand is still needed, as in "2 + 3" stopping on
// space, does not end the expression, and a comma or semicolon inside a call's
// argument list separates arguments as usual.
//
// The last StopOn given wins. StopOn() restores reading to end of input.
func StopOn(chars ...rune) ParseOption {
	var o eofopt
	v := make([]rune, 0, len(chars))
	have := func(r rune) bool {
		for _, c := range v {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, r := range chars {
		switch {
		case r == ',':
			o.c = true
		case r == ';':
			o.s = true
		case unicode.IsSpace(r):
			if have(r) {
				continue
			}
			v = append(v, r)
		default:
			panic("calculator: cannot stop on " + strconv.QuoteRune(r))
		}
	}
	o.ws = string(v)
	return &o
}

func (o *eofopt) parseOption(p parsectx) parsectx {
	p.ceof = o.c
	p.seof = o.s
	p.wseof = o.ws
	return p
}
