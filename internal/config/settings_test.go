package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("rules-dir", "", "")
	flags.String("log-level", "warn", "")
	flags.String("log-format", "console", "")
	flags.String("format", "console", "")
	return flags
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(nil)
	require.NoError(t, err)
	assert.Equal(t, &Settings{LogLevel: "warn", LogFormat: "console", Format: "console"}, s)
}

func TestLoadSettings_Precedence(t *testing.T) {
	t.Setenv("FISCOPT_FORMAT", "json")
	t.Setenv("FISCOPT_LOG_LEVEL", "debug")

	flags := settingsFlags()
	require.NoError(t, flags.Parse([]string{"--log-level", "error"}))

	s, err := LoadSettings(flags)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Format, "environment overrides flag defaults")
	assert.Equal(t, "error", s.LogLevel, "explicit flags override the environment")
	assert.Equal(t, "console", s.LogFormat)
}

func TestSettings_RuleStore(t *testing.T) {
	s := &Settings{}
	store, err := s.RuleStore()
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2025}, store.Years())

	s.RulesDir = t.TempDir()
	store, err = s.RuleStore()
	require.NoError(t, err)
	assert.Empty(t, store.Years())

	s.RulesDir = s.RulesDir + "/missing"
	_, err = s.RuleStore()
	assert.Error(t, err)
}
