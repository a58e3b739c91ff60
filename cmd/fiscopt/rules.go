package main

import (
	"fmt"
	"strconv"

	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/output"
	"github.com/spf13/cobra"
)

func rulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [year]",
		Short: "List supported fiscal years or show the rules of one year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, y := range a.rules.Years() {
					fmt.Fprintln(out, y)
				}
				return nil
			}

			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			rs, err := a.rules.Load(year)
			if err != nil {
				return err
			}
			data, err := output.FormatRuleSet(rs, a.settings.Format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [profile-file]",
		Short: "Validate a profile file against the rules of its year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			rs, err := a.rules.Load(doc.Profile.Year)
			if err != nil {
				return err
			}
			if err := config.ValidateHousehold(rs, &doc.Profile); err != nil {
				return fmt.Errorf("profile validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile file %s is valid for fiscal year %d\n", args[0], doc.Profile.Year)
			return nil
		},
	}
}
