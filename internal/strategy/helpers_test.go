package strategy

import (
	"testing"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func rules2024(t *testing.T) *domain.RuleSet {
	t.Helper()
	rs, err := config.NewEmbeddedRuleStore().Load(2024)
	require.NoError(t, err)
	return rs
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func riskPtr(r domain.RiskTolerance) *domain.RiskTolerance {
	return &r
}

// referenceProfile is a single micro BNC taxpayer with 28000 revenue and a
// 2000 retirement contribution (net tax 570.46, TMI 11%).
func referenceProfile() *domain.FiscalProfile {
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

// highEarnerProfile is a single réel BNC taxpayer with a 100000 profit
// (net tax 25228.72, TMI 41%), dynamic risk and 100000 of capital.
func highEarnerProfile() *domain.FiscalProfile {
	return &domain.FiscalProfile{
		Year:               2024,
		FamilySituation:    domain.FamilySingle,
		Parts:              decimal.NewFromInt(1),
		Regime:             domain.RegimeReel,
		ActivityClass:      domain.ActivityBNC,
		Revenue:            decimal.NewFromInt(120000),
		DeductibleExpenses: decimal.NewFromInt(20000),
		RiskTolerance:      riskPtr(domain.RiskDynamic),
		InvestmentCapacity: decimalPtr(decimal.NewFromInt(100000)),
	}
}

func input(t *testing.T, rs *domain.RuleSet, p *domain.FiscalProfile) Input {
	t.Helper()
	tax, err := calculation.CalculateWithRules(rs, p)
	require.NoError(t, err)
	return Input{Tax: tax, Profile: p}
}

func evaluate(t *testing.T, s Strategy, in Input) Outcome {
	t.Helper()
	out, err := s.Evaluate(in)
	require.NoError(t, err)
	return out
}
