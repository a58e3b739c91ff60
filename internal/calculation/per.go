package calculation

import (
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// PERCeiling returns clamp(revenue * percentage_rate, floor, ceiling_by_status[status]).
// An empty status selects the default ceiling.
func PERCeiling(rs *domain.RuleSet, revenue decimal.Decimal, status string) (decimal.Decimal, error) {
	if status == "" {
		status = domain.DefaultPERStatus
	}
	upper, ok := rs.PER.CeilingByStatus[status]
	if !ok {
		return decimal.Zero, &domain.ConfigurationError{Year: rs.Year, Key: "per.ceiling_by_status." + status, Reason: "no ceiling for status"}
	}
	ceiling := revenue.Mul(rs.PER.PercentageRate)
	if ceiling.LessThan(rs.PER.Floor) {
		ceiling = rs.PER.Floor
	}
	if ceiling.GreaterThan(upper) {
		ceiling = upper
	}
	return ceiling, nil
}

// ApplyPER splits a retirement contribution into its deductible part and the
// excess above the ceiling. Deductible + Excess always equals Contribution.
func ApplyPER(rs *domain.RuleSet, contribution, revenue decimal.Decimal, status string) (domain.PERApplication, error) {
	ceiling, err := PERCeiling(rs, revenue, status)
	if err != nil {
		return domain.PERApplication{}, err
	}
	deductible := decimal.Min(contribution, ceiling)
	return domain.PERApplication{
		Contribution: contribution,
		Ceiling:      ceiling,
		Deductible:   deductible,
		Excess:       contribution.Sub(deductible),
	}, nil
}
