// Package logging builds the zap loggers used by the command line.
package logging

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// The engine logs through calculation.Logger; the sugared zap logger is the
// production implementation.
var _ calculation.Logger = (*zap.SugaredLogger)(nil)

// New builds a logger writing to stderr. level is debug, info, warn or
// error; format is console or json.
func New(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format %q (console or json)", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Engine adapts a zap logger to the engine's logging contract. A nil logger
// yields the no-op logger.
func Engine(l *zap.Logger) calculation.Logger {
	if l == nil {
		return calculation.NopLogger{}
	}
	return l.Sugar()
}
