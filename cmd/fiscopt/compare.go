package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rgehrsitz/fiscopt/internal/breakeven"
	"github.com/rgehrsitz/fiscopt/internal/compare"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/transform"
	"github.com/spf13/cobra"
)

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [profile-file]",
		Short: "Compare a profile against what-if variants",
		Long: `Compare the tax burden of a profile with variants built from templates
and transforms. Every template and every transform yields one variant.

Examples:
  fiscopt compare profile.yaml --with switch_regime,max_per
  fiscopt compare profile.yaml --transform set_expenses:amount=12000 --format csv
  fiscopt compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				years := a.rules.Years()
				if len(years) == 0 {
					return fmt.Errorf("no fiscal year rules available")
				}
				rs, err := a.rules.Load(years[len(years)-1])
				if err != nil {
					return err
				}
				fmt.Fprint(out, transform.GetTemplateHelp(transform.CreateBuiltInTemplates(rs)))
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("a profile file is required (or use --list-templates)")
			}

			with, _ := cmd.Flags().GetString("with")
			specs, _ := cmd.Flags().GetStringArray("transform")
			templates := transform.ParseTemplateList(with)
			if len(templates) == 0 && len(specs) == 0 {
				return fmt.Errorf("--with or --transform is required to build variants")
			}

			doc, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			engine := compare.NewCompareEngine(a.rules)
			engine.CalcEngine.SetLogger(a.engineLogger())
			set, err := engine.Compare(cmd.Context(), &doc.Profile, compare.CompareOptions{
				Templates:  templates,
				Transforms: specs,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			set.ProfilePath = args[0]

			switch strings.ToLower(a.settings.Format) {
			case "json":
				s, err := (&compare.JSONFormatter{Pretty: true}).Format(set)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			case "csv":
				s, err := (&compare.CSVFormatter{}).Format(set)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
			default:
				fmt.Fprint(out, (&compare.TableFormatter{}).Format(set))
			}
			return nil
		},
	}
	cmd.Flags().String("with", "", "Comma-separated list of templates, one variant each")
	cmd.Flags().StringArray("transform", nil, "Transform spec name[:key=value,...], repeatable")
	cmd.Flags().Bool("list-templates", false, "List the available templates")
	return cmd
}

func breakEvenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break-even [profile-file]",
		Short: "Find the amounts at which a profile changes regime or bracket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetString("target")
			targets := breakeven.Resolve(breakeven.Target(target))
			if !slices.Contains(breakeven.Targets, targets[0]) {
				return fmt.Errorf("unknown target %q (expected all, reel_expenses or per_bracket)", target)
			}

			doc, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			solver := breakeven.NewDefaultSolver(a.rules)
			solver.SetLogger(a.engineLogger())

			results := make([]breakeven.Result, 0, len(targets))
			for _, t := range targets {
				res, err := solver.Solve(cmd.Context(), breakeven.Request{Profile: &doc.Profile, Target: t})
				if err != nil {
					return fmt.Errorf("break-even analysis failed: %w", err)
				}
				results = append(results, *res)
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(a.settings.Format) {
			case "json":
				s, err := (&breakeven.JSONFormatter{Pretty: true}).Format(results)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, s)
			case "console", "":
				fmt.Fprint(out, (&breakeven.TableFormatter{}).Format(results))
			default:
				return fmt.Errorf("unsupported format %q for break-even (supported: console, json)", a.settings.Format)
			}
			return nil
		},
	}
	cmd.Flags().String("target", string(breakeven.TargetAll), "Break-even target (all, reel_expenses, per_bracket)")
	return cmd
}
