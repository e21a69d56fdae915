package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/calculator"
)

var plotCmd = &cobra.Command{
	Use:   "plot [flags] expr",
	Short: "Plot an expression of one variable.",
	Long: `Plot an expression of one variable as a scatter plot in the terminal,
sampling it from --min through --max in increments of --step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		e, err := calculator.ParseString(args[0])
		if err != nil {
			return fmt.Errorf("parsing %q: %w", args[0], err)
		}
		name := getString(cmd, "var")
		lo, hi, step := getFloat(cmd, "min"), getFloat(cmd, "max"), getFloat(cmd, "step")
		if cmd.Flags().Changed("width") {
			s.chart.Width = getInt(cmd, "width")
		}
		if cmd.Flags().Changed("height") {
			s.chart.Height = getInt(cmd, "height")
		}
		_, err = calculator.Plot(s.ctx, s.chart, e, name, lo, hi, step)
		return err
	},
}

func init() {
	plotCmd.Flags().String("var", "x", "free variable to plot over")
	plotCmd.Flags().Float64("min", -10, "least value of the variable")
	plotCmd.Flags().Float64("max", 10, "greatest value of the variable")
	plotCmd.Flags().Float64("step", 0.5, "increment between samples")
	plotCmd.Flags().Int("width", 0, "plot area width in characters (default terminal width)")
	plotCmd.Flags().Int("height", 0, "plot area height in lines")
	rootCmd.AddCommand(plotCmd)
}
