package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
	ErrUnsupportedYear     = errors.New("unsupported fiscal year")
	ErrArithmeticInvariant = errors.New("arithmetic invariant violated")
	ErrStrategyFailure     = errors.New("strategy failure")
)

// ValidationError rejects a profile field before any arithmetic runs.
type ValidationError struct {
	Field      string
	Constraint string
	Value      any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Constraint, e.Value)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConfigurationError reports a missing or unusable rule entry.
type ConfigurationError struct {
	Year   int
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("rules %d: %s: %s", e.Year, e.Key, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// UnsupportedYearError is returned when no rule document exists for a year.
// No nearby year is ever substituted.
type UnsupportedYearError struct {
	Year      int
	Supported []int
}

func (e *UnsupportedYearError) Error() string {
	years := make([]string, len(e.Supported))
	for i, y := range e.Supported {
		years[i] = fmt.Sprint(y)
	}
	return fmt.Sprintf("no rule document for fiscal year %d (supported: %s)", e.Year, strings.Join(years, ", "))
}

func (e *UnsupportedYearError) Is(target error) bool {
	return target == ErrUnsupportedYear || target == ErrConfiguration
}

// ArithmeticInvariantError reports a malformed bracket table at load time.
type ArithmeticInvariantError struct {
	Year   int
	Index  int
	Reason string
}

func (e *ArithmeticInvariantError) Error() string {
	return fmt.Sprintf("rules %d: bracket %d: %s", e.Year, e.Index, e.Reason)
}

func (e *ArithmeticInvariantError) Is(target error) bool { return target == ErrArithmeticInvariant }

// StrategyFailure wraps the error or panic of a single strategy.
type StrategyFailure struct {
	Strategy string
	Err      error
}

func (e *StrategyFailure) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Err)
}

func (e *StrategyFailure) Unwrap() error { return e.Err }

func (e *StrategyFailure) Is(target error) bool { return target == ErrStrategyFailure }
