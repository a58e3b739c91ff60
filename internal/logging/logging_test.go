package logging

import (
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
	}{
		{"debug", "console", false},
		{"warn", "json", false},
		{"info", "", false},
		{"loud", "console", true},
		{"info", "xml", true},
	}
	for _, tt := range tests {
		t.Run(tt.level+"/"+tt.format, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	logger, err := New("warn", "json")
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestEngine_RoutesEngineLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := calculation.NewCalculationEngine(config.NewEmbeddedRuleStore())
	engine.SetLogger(Engine(zap.New(core)))

	_, err := engine.Calculate(&domain.FiscalProfile{
		Year:            2024,
		FamilySituation: domain.FamilySingle,
		Parts:           decimal.NewFromInt(1),
		Regime:          domain.RegimeMicro,
		ActivityClass:   domain.ActivityBNC,
		Revenue:         decimal.NewFromInt(28000),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessageSnippet("calculated 2024").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.DebugLevel).Len())
}

func TestEngine_NilLogger(t *testing.T) {
	assert.IsType(t, calculation.NopLogger{}, Engine(nil))
}
