package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for CLI settings.
const envPrefix = "FISCOPT"

// Settings are the process-level options of the CLI.
type Settings struct {
	RulesDir  string `mapstructure:"rules-dir"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	Format    string `mapstructure:"format"`
}

// LoadSettings resolves settings from command flags, FISCOPT_* environment
// variables and defaults, in that order of precedence.
func LoadSettings(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rules-dir", "")
	v.SetDefault("log-level", "warn")
	v.SetDefault("log-format", "console")
	v.SetDefault("format", "console")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to resolve settings: %w", err)
	}
	return &s, nil
}

// RuleStore builds the rule store the settings point at.
func (s *Settings) RuleStore() (*RuleStore, error) {
	if s.RulesDir == "" {
		return NewEmbeddedRuleStore(), nil
	}
	return NewDirRuleStore(s.RulesDir)
}
