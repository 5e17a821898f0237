package main

import (
	"fmt"
	"os"

	"github.com/dwz/networth-planner/internal/calculation"
	"github.com/dwz/networth-planner/internal/config"
	"github.com/dwz/networth-planner/internal/output"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	planFile string
	debug    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dwz",
		Short:         "Net worth projection and die-with-zero retirement planning",
		Long:          "dwz projects net worth over a multi-year horizon from a YAML plan file and searches for the retirement year that drives net worth to approximately zero by the end of the horizon.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.planFile, "plan", "p", "plan.yaml", "plan file (YAML)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log engine details to stderr")

	root.AddCommand(newProjectCmd(opts))
	root.AddCommand(newRetireCmd(opts))
	root.AddCommand(newExampleCmd(opts))
	return root
}

func newEngine(opts *rootOptions) *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	if opts.debug {
		engine.SetLogger(newStderrLogger())
	}
	return engine
}

func newProjectCmd(opts *rootOptions) *cobra.Command {
	var years int
	var verbose bool
	var format string
	var analyzeRetirement bool

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run the year-by-year projection and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			plan, err := parser.LoadFromFile(opts.planFile)
			if err != nil {
				return err
			}
			horizon := years
			if horizon == 0 {
				horizon = plan.ProjectionYears
			}

			engine := newEngine(opts)
			result, err := engine.Project(plan, horizon, verbose)
			if err != nil {
				return err
			}

			report := &output.Report{
				Plan:       plan,
				Projection: result,
				Metrics:    calculation.SummarizeProjection(result),
			}
			if analyzeRetirement {
				outcome, err := engine.FindDieWithZeroYear(plan, horizon)
				if err != nil {
					return err
				}
				report.Retirement = outcome
			}
			return output.GenerateReport(report, format, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&years, "years", "y", 0, "projection horizon (default: plan's projection_years)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include per-asset gain/loss/net-change columns")
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format (console, json, csv)")
	cmd.Flags().BoolVar(&analyzeRetirement, "die-with-zero", true, "include the die-with-zero analysis")
	return cmd
}

func newRetireCmd(opts *rootOptions) *cobra.Command {
	var years int

	cmd := &cobra.Command{
		Use:   "retire",
		Short: "Search for the retirement year closest to dying with zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			plan, err := parser.LoadFromFile(opts.planFile)
			if err != nil {
				return err
			}
			horizon := years
			if horizon == 0 {
				horizon = plan.ProjectionYears
			}

			engine := newEngine(opts)
			outcome, err := engine.FindDieWithZeroYear(plan, horizon)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stop working NOW (year 0): final net worth in year %d is %s\n",
				horizon, output.FormatCurrency(outcome.StopNowNetWorth, plan.Currency))
			if outcome.Unreachable {
				fmt.Fprintln(out, "Cannot reach zero - expenses exceed asset growth even with continued income")
				return nil
			}
			fmt.Fprintf(out, "Optimal retirement year: %d (final net worth in year %d: %s)\n",
				outcome.BestYear, horizon, output.FormatCurrency(outcome.FinalNetWorth, plan.Currency))
			return nil
		},
	}
	cmd.Flags().IntVarP(&years, "years", "y", 0, "projection horizon (default: plan's projection_years)")
	return cmd
}

func newExampleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Write an example plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.planFile); err == nil {
				return fmt.Errorf("refusing to overwrite existing %s", opts.planFile)
			}
			parser := config.NewInputParser()
			if err := parser.SavePlan(parser.CreateExamplePlan(), opts.planFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote example plan to %s\n", opts.planFile)
			return nil
		},
	}
}
