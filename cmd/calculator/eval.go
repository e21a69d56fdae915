package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calculator"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] [expr...]",
	Short: "Evaluate expressions to numbers.",
	Long: `Evaluate each expression given as an argument, or each line of standard
input if there are none, and print the results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return eachExpr(cmd, args, func(e *calculator.Node) error {
			r, err := calculator.ToDouble(s.ctx, e)
			if err != nil {
				return err
			}
			s.printNum(r.Value())
			return nil
		})
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify [flags] [expr...]",
	Short: "Simplify expressions.",
	Long: `Simplify each expression given as an argument, or each line of standard
input if there are none, substituting variables from --given and folding
constant additions, subtractions, and multiplications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		return eachExpr(cmd, args, func(e *calculator.Node) error {
			fmt.Fprintln(s.out, calculator.Simplify(s.ctx, e))
			return nil
		})
	},
}

// eachExpr parses each argument, or each line of the command's input if there
// are no arguments, and calls f with it. Parse errors stop processing;
// errors from f are printed and processing continues.
func eachExpr(cmd *cobra.Command, args []string, f func(*calculator.Node) error) error {
	echo := getFlag(cmd, "echo")
	out := cmd.OutOrStdout()
	do := func(src string) error {
		e, err := calculator.ParseString(src)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", src, err)
		}
		if echo {
			fmt.Fprintf(out, "%v : ", e)
		}
		if err := f(e); err != nil {
			fmt.Fprintln(out, err)
		}
		return nil
	}
	if len(args) > 0 {
		for _, a := range args {
			if err := do(a); err != nil {
				return err
			}
		}
		return nil
	}
	return eachLine(cmd.InOrStdin(), do)
}

// eachLine calls f with each non-blank line of r.
func eachLine(r io.Reader, f func(string) error) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := f(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{evalCmd, simplifyCmd} {
		c.Flags().Bool("echo", false, "print parse trees")
		rootCmd.AddCommand(c)
	}
}
