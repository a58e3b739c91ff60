package calculation

import (
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// ReductionCeiling evaluates a ceiling rule for a household. units is the
// count a per_unit rule multiplies; taxable is the income a percent_of_income
// rule applies to.
func ReductionCeiling(rule domain.CeilingRule, units int, taxable decimal.Decimal) decimal.Decimal {
	switch rule.Kind {
	case domain.CeilingPerUnit:
		c := rule.Amount.Add(rule.PerUnit.Mul(decimal.NewFromInt(int64(units))))
		if rule.Max != nil && c.GreaterThan(*rule.Max) {
			c = *rule.Max
		}
		return c
	case domain.CeilingPercentOfIncome:
		if taxable.IsNegative() {
			return decimal.Zero
		}
		return taxable.Mul(rule.Amount)
	default:
		return rule.Amount
	}
}

// ApplyReduction computes one reduction line: eligible = min(declared,
// ceiling), reduction = eligible * rate, excess = declared - eligible.
func ApplyReduction(rs *domain.RuleSet, t domain.ReductionType, declared decimal.Decimal, units int, taxable decimal.Decimal) (domain.AppliedReduction, error) {
	cfg, ok := rs.Reduction(t)
	if !ok {
		return domain.AppliedReduction{}, &domain.ConfigurationError{Year: rs.Year, Key: "reductions." + string(t), Reason: "missing"}
	}
	ceiling := ReductionCeiling(cfg.Ceiling, units, taxable)
	eligible := decimal.Min(declared, ceiling)
	return domain.AppliedReduction{
		Type:      t,
		Declared:  declared,
		Ceiling:   ceiling,
		Eligible:  eligible,
		Rate:      cfg.Rate,
		Reduction: eligible.Mul(cfg.Rate),
		Excess:    declared.Sub(eligible),
	}, nil
}

// ApplyReductions applies every configured reduction type to the declared
// amounts of a profile and returns the lines and their total.
func ApplyReductions(rs *domain.RuleSet, p *domain.FiscalProfile, taxable decimal.Decimal) ([]domain.AppliedReduction, decimal.Decimal, error) {
	lines := make([]domain.AppliedReduction, 0, len(domain.ReductionTypes))
	total := decimal.Zero
	for _, t := range domain.ReductionTypes {
		cfg, ok := rs.Reduction(t)
		if !ok {
			return nil, decimal.Zero, &domain.ConfigurationError{Year: rs.Year, Key: "reductions." + string(t), Reason: "missing"}
		}
		line, err := ApplyReduction(rs, t, p.Deductions.Amount(t), p.Units(cfg.Ceiling.Unit), taxable)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lines = append(lines, line)
		total = total.Add(line.Reduction)
	}
	return lines, total, nil
}
