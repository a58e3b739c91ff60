package calculation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func rules(t *testing.T, year int) *domain.RuleSet {
	t.Helper()
	rs, err := config.NewEmbeddedRuleStore().Load(year)
	require.NoError(t, err)
	return rs
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// decimalEqual compares decimals by value so 570.460 equals 570.46.
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// microBNC is the reference profile: single, micro BNC, 28000 revenue and a
// 2000 retirement contribution.
func microBNC() *domain.FiscalProfile {
	return &domain.FiscalProfile{
		Year:            2024,
		FamilySituation: domain.FamilySingle,
		Parts:           decimal.NewFromInt(1),
		Regime:          domain.RegimeMicro,
		ActivityClass:   domain.ActivityBNC,
		Revenue:         decimal.NewFromInt(28000),
		Deductions: domain.DeclaredDeductions{
			RetirementContributions: decimal.NewFromInt(2000),
		},
	}
}

// TestLogger records formatted messages by level.
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
