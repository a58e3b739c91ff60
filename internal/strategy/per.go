package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// PERStrategy recommends a retirement savings top-up.
//
// Eligible when TMI >= per.min_marginal_rate. The recommended amount closes
// the gap between declared contributions and target_ceiling_ratio of the
// deduction ceiling, limited by investable capital, and must reach
// min_contribution. The saving is the net tax difference with and without
// the top-up.
type PERStrategy struct {
	base
}

func NewPERStrategy(rs *domain.RuleSet) (*PERStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &PERStrategy{base: b}, nil
}

func (s *PERStrategy) Name() string { return NamePERTopUp }

func (s *PERStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	p := in.Profile
	cfg := s.rules.Strategies.PER

	if in.Tax.MarginalRate.LessThan(cfg.MinMarginalRate) {
		return out, nil
	}

	ceiling, err := calculation.PERCeiling(s.rules, p.Revenue, p.PERStatus)
	if err != nil {
		return out, err
	}
	target := ceiling.Mul(cfg.TargetCeilingRatio).Round(2)
	amount := target.Sub(p.Deductions.RetirementContributions)
	if amount.LessThan(cfg.MinContribution) {
		return out, nil
	}

	if capital, ok := in.capital(); ok {
		amount = decimal.Min(amount, capital)
		if amount.LessThan(cfg.MinContribution) {
			return out, nil
		}
	} else {
		out.warn("%s: investable capital not provided; top-up sized on the deduction ceiling alone", s.Name())
	}

	saving, err := calculation.NetTaxSaving(s.rules, p, func(q *domain.FiscalProfile) {
		q.Deductions.RetirementContributions = q.Deductions.RetirementContributions.Add(amount)
	})
	if err != nil {
		return out, err
	}
	if !saving.IsPositive() {
		return out, nil
	}

	out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
		Title: "Top up retirement savings (PER)",
		Description: fmt.Sprintf("Contributing %s more brings deductible contributions to %s of a %s ceiling at a %s%% marginal rate.",
			euros(amount), euros(p.Deductions.RetirementContributions.Add(amount)), euros(ceiling),
			in.Tax.MarginalRate.Mul(decimal.NewFromInt(100)).StringFixed(0)),
		Category:           domain.CategoryDeduction,
		EstimatedImpact:    saving,
		Risk:               domain.LevelLow,
		Complexity:         domain.LevelLow,
		Confidence:         decimal.NewFromFloat(0.85),
		RequiredInvestment: amount,
		ActionSteps: []string{
			fmt.Sprintf("Pay %s into a PER before year end", euros(amount)),
			"Keep the provider's contribution certificate",
			"Report the contribution in the retirement savings box of the return",
		},
		Sources:  []string{"CGI art. 163 quatervicies", "CGI art. 154 bis"},
		Deadline: yearEnd(p.Year),
	}))
	return out, nil
}
