package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/chart"
)

// session runs calculator commands one line at a time against a persistent
// set of variables.
type session struct {
	ctx   *calculator.Context
	out   io.Writer
	chart *chart.Scatter
	verb  string
}

func newSessionTo(out io.Writer, ctx *calculator.Context, verb string) *session {
	if verb == "" {
		verb = "%g"
	}
	return &session{
		ctx:   ctx,
		out:   out,
		chart: chart.NewScatter(out),
		verb:  verb,
	}
}

// exec runs one line of input:
//
//	name := expr     define name as the simplified expr
//	toDouble(expr)   print the value of expr
//	simplify(expr)   print the simplified expr
//	plot(expr, var, min, max, step)
//	vars             list definitions
//	clear name       remove a definition
//	expr             print the simplified expr
func (s *session) exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	switch f := strings.Fields(line); {
	case len(f) == 1 && f[0] == "vars":
		for _, name := range s.ctx.Names() {
			v, _ := s.ctx.Get(name)
			fmt.Fprintf(s.out, "%s := %v\n", name, v)
		}
		return nil
	case len(f) == 2 && f[0] == "clear":
		if !s.ctx.Contains(f[1]) {
			return &calculator.NameError{Name: f[1]}
		}
		s.ctx.Remove(f[1])
		return nil
	}
	if k := strings.Index(line, ":="); k >= 0 {
		return s.assign(line, k)
	}

	e, err := calculator.ParseString(line)
	if err != nil {
		return err
	}
	switch {
	case e.IsOp(calculator.CmdToDouble, 1):
		r, err := calculator.ToDouble(s.ctx, e)
		if err != nil {
			return err
		}
		s.printNum(r.Value())
	case e.Kind() == calculator.KindOperation && e.Name() == calculator.CmdPlot:
		r, err := calculator.PlotCall(s.ctx, s.chart, e)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, r)
	default:
		// Simplify also unwraps an explicit simplify call.
		fmt.Fprintln(s.out, calculator.Simplify(s.ctx, e))
	}
	return nil
}

// assign handles a line with := at byte offset k.
func (s *session) assign(line string, k int) error {
	name := strings.TrimSpace(line[:k])
	lhs, err := calculator.ParseString(line[:k])
	if err != nil {
		return fmt.Errorf("assigning to %q: %w", name, err)
	}
	if lhs.Kind() != calculator.KindVariable {
		return fmt.Errorf("cannot assign to %v", lhs)
	}
	// Blank out the target so that error positions count from the start of
	// the line.
	src := strings.Repeat(" ", utf8.RuneCountInString(line[:k+2])) + line[k+2:]
	e, err := calculator.ParseString(src)
	if err != nil {
		return err
	}
	v := calculator.Simplify(s.ctx, e)
	if err := define(s.ctx, lhs.Name(), v); err != nil {
		return err
	}
	log.Debugf("%s := %v", lhs.Name(), v)
	fmt.Fprintf(s.out, "%s := %v\n", lhs.Name(), v)
	return nil
}

func (s *session) printNum(v float64) {
	fmt.Fprintf(s.out, s.verb+"\n", v)
}

// errCycle is returned for definitions that would make a variable depend on
// itself. Evaluating such a variable would never finish.
var errCycle = errors.New("definition refers to itself")

// define binds name to v unless v depends on name through the bindings in
// ctx.
func define(ctx *calculator.Context, name string, v *calculator.Node) error {
	if reaches(ctx, v, name, make(map[string]bool)) {
		return fmt.Errorf("defining %s := %v: %w", name, v, errCycle)
	}
	ctx.Set(name, v)
	return nil
}

// reaches reports whether evaluating n would look up name.
func reaches(ctx calculator.Scope, n *calculator.Node, name string, seen map[string]bool) bool {
	switch n.Kind() {
	case calculator.KindVariable:
		if n.Name() == name {
			return true
		}
		if seen[n.Name()] {
			return false
		}
		seen[n.Name()] = true
		v, ok := ctx.Get(n.Name())
		return ok && reaches(ctx, v, name, seen)
	case calculator.KindOperation:
		for i := 0; i < n.Len(); i++ {
			if reaches(ctx, n.Arg(i), name, seen) {
				return true
			}
		}
	}
	return false
}
