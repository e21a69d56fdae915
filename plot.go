package calculator

import (
	"math"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// MaxSamples is the largest number of points Sample will compute.
const MaxSamples = 1 << 20

// Point is a sampled point of a function.
type Point struct {
	X, Y float64
}

// Renderer draws sampled points. Failures to draw are the renderer's own
// concern.
type Renderer interface {
	ScatterPlot(title, xLabel, yLabel string, xs, ys []float64)
}

// Sample evaluates e at evenly spaced values of the variable name, from lo
// through hi in increments of step. The result holds floor((hi-lo)/step)+1
// points, the i'th having X = lo + i*step.
//
// name must not be bound in vars. Sample binds it to each X in turn and
// removes the binding before returning, including when evaluation fails.
func Sample(vars Variables, e *Node, name string, lo, hi, step float64) ([]Point, error) {
	if vars.Contains(name) {
		return nil, &BoundError{Name: name}
	}
	if lo > hi || !finite(lo) || !finite(hi) {
		return nil, &RangeError{Min: lo, Max: hi}
	}
	if !(step > 0) {
		return nil, &StepError{Step: step}
	}
	k := math.Floor((hi-lo)/step) + 1
	if k > MaxSamples {
		return nil, &LimitError{Step: step, Count: k}
	}
	count := int(k)
	log.Debugf("sampling %v over %s in [%g, %g] step %g: %d points", e, name, lo, hi, step, count)

	defer vars.Remove(name)
	r := make([]Point, 0, count)
	for i := 0; i < count; i++ {
		x := lo + float64(i)*step
		vars.Set(name, Num(x))
		y, err := Evaluate(vars, e)
		if err != nil {
			return nil, err
		}
		r = append(r, Point{X: x, Y: y})
	}
	return r, nil
}

// Plot samples e as Sample does and passes the points to r, titled with the
// expression and labeled with the variable name. The result is e itself.
func Plot(vars Variables, r Renderer, e *Node, name string, lo, hi, step float64) (*Node, error) {
	pts, err := Sample(vars, e, name, lo, hi, step)
	if err != nil {
		return nil, err
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	title := e.String()
	log.Debugf("rendering %d points of %s", len(pts), title)
	r.ScatterPlot(title, name, title, xs, ys)
	return e, nil
}

// PlotCall plots a call of the form plot(expr, var, min, max, step). The
// bounds and step may be any expressions; they are evaluated in vars before
// sampling.
func PlotCall(vars Variables, r Renderer, call *Node) (*Node, error) {
	if call.kind != KindOperation || call.name != CmdPlot {
		return nil, &ArgumentError{Func: CmdPlot, Want: "plot call"}
	}
	if len(call.args) != 5 {
		return nil, &ArityError{Op: CmdPlot, Want: 5, Got: len(call.args)}
	}
	e, v := call.args[0], call.args[1]
	if v.kind != KindVariable {
		return nil, &ArgumentError{Func: CmdPlot, Arg: 2, Want: "variable"}
	}
	var b [3]float64
	for i := range b {
		x, err := Evaluate(vars, call.args[i+2])
		if err != nil {
			return nil, err
		}
		b[i] = x
	}
	return Plot(vars, r, e, v.name, b[0], b[1], b[2])
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// BoundError is an error from plotting over a variable that already has a
// value.
type BoundError struct {
	// Name is the variable.
	Name string
}

func (err *BoundError) Error() string {
	return "variable " + strconv.Quote(err.Name) + " is already defined"
}

// RangeError is an error from plotting over a range whose lower bound exceeds
// its upper bound, or whose bounds are not finite.
type RangeError struct {
	Min, Max float64
}

func (err *RangeError) Error() string {
	return "invalid range [" + fmtnum(err.Min) + ", " + fmtnum(err.Max) + "]"
}

// StepError is an error from plotting with a step that is not positive.
type StepError struct {
	Step float64
}

func (err *StepError) Error() string {
	return "step " + fmtnum(err.Step) + " must be positive"
}

// LimitError is an error from plotting with a valid step that is so small the
// range would need more than MaxSamples points.
type LimitError struct {
	Step float64
	// Count is the number of points the step would have needed.
	Count float64
}

func (err *LimitError) Error() string {
	return "step " + fmtnum(err.Step) + " needs " + fmtnum(err.Count) + " points, more than " + strconv.Itoa(MaxSamples)
}

// ArgumentError is an error from a command given an argument of the wrong
// form.
type ArgumentError struct {
	// Func is the command name.
	Func string
	// Arg is the 1-based index of the argument, or 0 for the call itself.
	Arg int
	// Want describes what the argument should be.
	Want string
}

func (err *ArgumentError) Error() string {
	r := err.Func + ": want " + err.Want
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
