// Package chart draws scatter plots of sampled functions as text.
package chart

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// DefaultWidth and DefaultHeight are the plot area dimensions used when
// no size is given and the output is not a terminal.
const (
	DefaultWidth  = 72
	DefaultHeight = 20
)

// Scatter draws scatter plots to a writer. It implements
// calculator.Renderer.
type Scatter struct {
	w io.Writer
	// Width and Height are the dimensions of the plot area in characters.
	Width, Height int
	// Mark is the rune drawn for each point.
	Mark rune
}

// NewScatter creates a scatter plot renderer writing to w. If w is a
// terminal, the plot is as wide as the terminal allows.
func NewScatter(w io.Writer) *Scatter {
	s := Scatter{w: w, Width: DefaultWidth, Height: DefaultHeight, Mark: '*'}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.FitTerminal(int(f.Fd()))
	}
	return &s
}

// FitTerminal sizes the plot area to the terminal with the given file
// descriptor. The height only ever shrinks.
func (s *Scatter) FitTerminal(fd int) {
	w, h, err := term.GetSize(fd)
	if err != nil {
		log.Debugf("chart: no terminal size: %v", err)
		return
	}
	// Leave room for the y-axis gutter and the title and axis lines.
	if w-gutter-1 > 10 {
		s.Width = w - gutter - 1
	}
	if h-6 > 5 && h-6 < s.Height {
		s.Height = h - 6
	}
}

// gutter is the width of the y-axis tick labels.
const gutter = 12

// ScatterPlot draws the points (xs[i], ys[i]). Points with a non-finite
// coordinate are skipped. Write errors are logged, not returned.
func (s *Scatter) ScatterPlot(title, xLabel, yLabel string, xs, ys []float64) {
	if len(xs) != len(ys) {
		log.Warnf("chart: %d x values but %d y values", len(xs), len(ys))
	}
	width, height := s.Width, s.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	mark := s.Mark
	if mark == 0 {
		mark = '*'
	}

	xlo, xhi, n := bounds(xs, ys, false)
	ylo, yhi, _ := bounds(xs, ys, true)
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for i := 0; i < len(xs) && i < len(ys); i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		c := scale(xs[i], xlo, xhi, width)
		r := height - 1 - scale(ys[i], ylo, yhi, height)
		grid[r][c] = mark
	}

	b := bufio.NewWriter(s.w)
	b.WriteString(title)
	b.WriteByte('\n')
	b.WriteString(pad(yLabel, gutter))
	b.WriteByte('\n')
	for i, row := range grid {
		var tick string
		switch i {
		case 0:
			tick = fmtval(yhi)
		case height - 1:
			tick = fmtval(ylo)
		}
		b.WriteString(pad(tick, gutter-1))
		b.WriteByte('|')
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", gutter-1))
	b.WriteByte('+')
	b.WriteString(strings.Repeat("-", width))
	b.WriteByte('\n')
	lo, hi := fmtval(xlo), fmtval(xhi)
	space := width - len(lo) - len(hi)
	if space < 1 {
		space = 1
	}
	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString(lo)
	b.WriteString(strings.Repeat(" ", space))
	b.WriteString(hi)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString(xLabel)
	b.WriteString(" (" + strconv.Itoa(n) + " points)\n")
	if err := b.Flush(); err != nil {
		log.Warnf("chart: writing plot of %s: %v", title, err)
	}
}

// bounds finds the range of the finite points along one axis and the number
// of finite points. A flat or empty range is padded so that it has width.
func bounds(xs, ys []float64, useY bool) (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := 0; i < len(xs) && i < len(ys); i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		v := xs[i]
		if useY {
			v = ys[i]
		}
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		n++
	}
	switch {
	case n == 0:
		return -1, 1, 0
	case lo == hi:
		return lo - 1, hi + 1, n
	}
	return lo, hi, n
}

// scale maps v in [lo, hi] to a cell index in [0, cells).
func scale(v, lo, hi float64, cells int) int {
	k := int(math.Round((v - lo) / (hi - lo) * float64(cells-1)))
	if k < 0 {
		return 0
	}
	if k >= cells {
		return cells - 1
	}
	return k
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func fmtval(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// pad right-aligns s in a field of n runes.
func pad(s string, n int) string {
	if k := n - len([]rune(s)); k > 0 {
		return strings.Repeat(" ", k) + s
	}
	return s
}
