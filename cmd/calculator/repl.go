package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/chart"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run an interactive calculator session.",
	Long: `Run an interactive calculator session. Each line is one of:

	name := expr                      define a variable
	toDouble(expr)                    print the value of expr
	simplify(expr)                    print expr simplified
	plot(expr, var, min, max, step)   plot expr over var
	vars                              list variables
	clear name                        remove a variable
	expr                              print expr simplified

Type "quit" or end the input to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return interact(s, f)
		}
		err = eachLine(cmd.InOrStdin(), func(line string) error {
			if quit(line) {
				return io.EOF
			}
			if err := s.exec(line); err != nil {
				report(s.out, line, err)
			}
			return nil
		})
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	},
}

// interact runs s with line editing on the terminal in.
func interact(s *session, in *os.File) error {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer term.Restore(fd, state)
	screen := struct {
		io.Reader
		io.Writer
	}{in, os.Stdout}
	t := term.NewTerminal(screen, "> ")
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		t.SetSize(w, h)
	}
	s.out = t
	s.chart = chart.NewScatter(t)
	s.chart.FitTerminal(int(os.Stdout.Fd()))
	for {
		line, err := t.ReadLine()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if quit(line) {
			return nil
		}
		if err := s.exec(line); err != nil {
			report(t, line, err)
		}
	}
}

// report prints an error from line, marking the column of input errors.
func report(w io.Writer, line string, err error) {
	if c := calculator.Caret(strings.TrimSpace(line), err); c != "" {
		fmt.Fprintln(w, c)
	}
	fmt.Fprintln(w, "error:", err)
}

func quit(line string) bool {
	switch strings.TrimSpace(line) {
	case "quit", "exit":
		return true
	}
	return false
}

func init() {
	rootCmd.AddCommand(replCmd)
}
