package main

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/rgehrsitz/fiscopt/internal/optimize"
	"github.com/rgehrsitz/fiscopt/internal/output"
	"github.com/spf13/cobra"
)

func calculateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calculate [profile-file]",
		Short: "Calculate income tax and social contributions for a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.calculate(args[0])
			if err != nil {
				return err
			}
			return a.write(cmd, report)
		},
	}
}

func optimizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [profile-file]",
		Short: "Calculate a profile and rank tax optimization strategies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.calculate(args[0])
			if err != nil {
				return err
			}
			workers, _ := cmd.Flags().GetInt("workers")

			op := optimize.NewOptimizer(a.rules)
			op.Logger = a.engineLogger()
			op.Workers = workers
			result, err := op.Optimize(report.Tax, report.Profile, report.context)
			if err != nil {
				return fmt.Errorf("optimization failed: %w", err)
			}
			report.Optimization = result
			return a.write(cmd, report)
		},
	}
	cmd.Flags().Int("workers", 0, "Strategies evaluated concurrently (0 runs all at once)")
	return cmd
}

// calcReport is an output report plus the optimization context read from
// the same profile file.
type calcReport struct {
	output.Report
	context domain.OptimizationContext
}

func (a *app) calculate(path string) (*calcReport, error) {
	doc, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewCalculationEngine(a.rules)
	engine.SetLogger(a.engineLogger())
	result, err := engine.Calculate(&doc.Profile)
	if err != nil {
		return nil, fmt.Errorf("calculation failed: %w", err)
	}
	return &calcReport{
		Report:  output.Report{Profile: &doc.Profile, Tax: result},
		context: doc.Context,
	}, nil
}

func (a *app) write(cmd *cobra.Command, report *calcReport) error {
	f, err := output.NewFormatter(a.settings.Format)
	if err != nil {
		return err
	}
	return output.WriteFormatted(cmd.OutOrStdout(), f, &report.Report)
}
