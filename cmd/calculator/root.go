package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calculator"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "calculator",
	Short: "Evaluate, simplify, and plot calculator expressions.",
	Long: `Evaluate, simplify, and plot calculator expressions.

Expressions use + - * / ^, unary minus, sin and cos, variables, and
juxtaposition for multiplication, e.g. "3 x^2 - sin(x)". Variables are
defined with --given name=value or, in the repl, with "name := expr".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().StringArray("given", nil, "name=value variable definition (any number of times)")
	rootCmd.PersistentFlags().String("fmt", "%g", "result formatting verb")
}

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	return mustFlag(cmd.Flags().GetBool(flag))
}

func getString(cmd *cobra.Command, flag string) string {
	return mustFlag(cmd.Flags().GetString(flag))
}

func getFloat(cmd *cobra.Command, flag string) float64 {
	return mustFlag(cmd.Flags().GetFloat64(flag))
}

func getInt(cmd *cobra.Command, flag string) int {
	return mustFlag(cmd.Flags().GetInt(flag))
}

// mustFlag unwraps a flag lookup. A lookup only fails for a flag that was
// never registered or has another type, so that is a bug, not a user error.
func mustFlag[T any](r T, err error) T {
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// newContext builds the variable context from the --given flags. Each value
// is simplified against the definitions before it.
func newContext(cmd *cobra.Command) (*calculator.Context, error) {
	ctx := calculator.NewContext()
	for _, s := range mustFlag(cmd.Flags().GetStringArray("given")) {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		nm, vl := strings.TrimSpace(d[0]), strings.TrimSpace(d[1])
		v, err := calculator.ParseString(vl)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", nm, err)
		}
		v = calculator.Simplify(ctx, v)
		if err := define(ctx, nm, v); err != nil {
			return nil, err
		}
		log.Debugf("given %s := %v", nm, v)
	}
	return ctx, nil
}

// newSession creates a session writing to the command's output.
func newSession(cmd *cobra.Command) (*session, error) {
	ctx, err := newContext(cmd)
	if err != nil {
		return nil, err
	}
	return newSessionTo(cmd.OutOrStdout(), ctx, getString(cmd, "fmt")), nil
}
