package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	rules    *config.RuleStore
}

// engineLogger adapts the process logger for the calculation packages.
func (a *app) engineLogger() calculation.Logger {
	return logging.Engine(a.logger)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "fiscopt",
		Short:         "French income tax calculator and optimizer",
		Long:          "Calculates French income tax, social contributions and the micro vs réel comparison\nfor a self-employed household, then ranks tax optimization strategies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(settings.LogLevel, settings.LogFormat)
			if err != nil {
				return err
			}
			rules, err := settings.RuleStore()
			if err != nil {
				return err
			}
			a.settings = settings
			a.logger = logger
			a.rules = rules
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("rules-dir", "", "Directory of <year>.yaml rule documents (default: built-in rules)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")
	flags.StringP("format", "f", "console", "Output format (console, json, csv)")

	root.AddCommand(calculateCmd(a))
	root.AddCommand(optimizeCmd(a))
	root.AddCommand(rulesCmd(a))
	root.AddCommand(validateCmd(a))
	root.AddCommand(compareCmd(a))
	root.AddCommand(breakEvenCmd(a))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fiscopt %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(out, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
