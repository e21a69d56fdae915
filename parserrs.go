package calculator

import (
	"errors"
	"strconv"
	"strings"
)

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)

// OperatorError is an operator token in a place where the parser has no
// meaning for it, e.g. * before a term.
type OperatorError struct {
	Col      int
	Operator string
	// Unary is whether the operator appeared where a term was expected.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int { return err.Col }

// BracketError is an unclosed, unopened, or mismatched bracket. Left is empty
// for a close bracket with no open bracket, and Right is empty when the input
// ended inside brackets.
type BracketError struct {
	Col         int
	Left, Right string
}

func (err *BracketError) Error() string {
	switch {
	case err.Left == "":
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	case err.Right == "":
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int { return err.Col }

// SeparatorError is a comma or semicolon outside a function argument list, or
// one with no argument before it.
type SeparatorError struct {
	Col int
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int { return err.Col }

// CallError is a call of a known function with a number of arguments its Func
// rejects. A function name followed by nothing is a call with 0 arguments.
type CallError struct {
	// Col is the position of the token following the function name.
	Col  int
	Func string
	Len  int
}

func (err *CallError) Error() string {
	n := "arguments"
	if err.Len == 1 {
		n = "argument"
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" "+n)
}

func (err *CallError) Pos() int { return err.Col }

// EmptyExpressionError is a missing operand or bracketed expression. End is
// the token where an expression was expected, or empty at the end of input.
type EmptyExpressionError struct {
	Col int
	End string
}

func (err *EmptyExpressionError) Error() string {
	switch {
	case err.End != "":
		return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
	case err.Col <= 1:
		return errpos(err.Col, "no expression")
	}
	return errpos(err.Col, "no expression at end")
}

func (err *EmptyExpressionError) Pos() int { return err.Col }

func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// Caret marks the position of an input error in the source line it came
// from, returning the line followed by a line with ^ under the offending
// rune. If err does not wrap an InputError, the result is empty.
func Caret(line string, err error) string {
	var ie InputError
	if !errors.As(err, &ie) {
		return ""
	}
	r := []rune(line)
	k := ie.Pos() - 1
	if k > len(r) {
		k = len(r)
	}
	var b strings.Builder
	b.WriteString(line)
	b.WriteByte('\n')
	for _, c := range r[:max(k, 0)] {
		// Tabs stay tabs.
		if c != '\t' {
			c = ' '
		}
		b.WriteRune(c)
	}
	b.WriteByte('^')
	return b.String()
}
