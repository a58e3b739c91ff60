package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// SimpleDeductionsStrategy suggests reductions the household can claim
// without investing: donations, household services and, with young
// children, childcare.
//
// Eligible when net tax >= min_net_tax. Each suggestion is limited to the
// headroom under the reduction's ceiling and priced by the net tax
// difference it makes.
type SimpleDeductionsStrategy struct {
	base
}

func NewSimpleDeductionsStrategy(rs *domain.RuleSet) (*SimpleDeductionsStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &SimpleDeductionsStrategy{base: b}, nil
}

func (s *SimpleDeductionsStrategy) Name() string { return NameSimpleDeductions }

type deductionSuggestion struct {
	typ        domain.ReductionType
	suggested  decimal.Decimal
	title      string
	steps      []string
	sources    []string
	confidence decimal.Decimal
}

func (s *SimpleDeductionsStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	cfg := s.rules.Strategies.SimpleDeductions
	if in.Tax.NetTax.LessThan(cfg.MinNetTax) {
		return out, nil
	}

	suggestions := []deductionSuggestion{
		{
			typ:        domain.ReductionDonations,
			suggested:  cfg.SuggestedDonation,
			title:      "Donate to a public-interest organisation",
			steps:      []string{"Donate to an eligible organisation", "Keep the tax receipt for the return"},
			sources:    []string{"CGI art. 200"},
			confidence: decimal.NewFromFloat(0.9),
		},
		{
			typ:        domain.ReductionHouseholdServices,
			suggested:  cfg.SuggestedServices,
			title:      "Use declared household services",
			steps:      []string{"Pay home services through an approved provider or CESU", "Keep the annual certificate"},
			sources:    []string{"CGI art. 199 sexdecies"},
			confidence: decimal.NewFromFloat(0.8),
		},
	}
	if in.Profile.YoungChildren > 0 {
		suggestions = append(suggestions, deductionSuggestion{
			typ:        domain.ReductionChildcare,
			title:      "Declare childcare expenses",
			steps:      []string{"Collect childcare invoices for children under six", "Declare them in the childcare box"},
			sources:    []string{"CGI art. 200 quater B"},
			confidence: decimal.NewFromFloat(0.5),
		})
	}

	taxable := in.Tax.TaxableIncomeAfterPER
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	for _, sg := range suggestions {
		rule, ok := s.rules.Reduction(sg.typ)
		if !ok {
			return out, &domain.ConfigurationError{Year: s.rules.Year, Key: "reductions." + string(sg.typ), Reason: "missing"}
		}
		declared := in.Profile.Deductions.Amount(sg.typ)
		ceiling := calculation.ReductionCeiling(rule.Ceiling, in.Profile.Units(rule.Ceiling.Unit), taxable)
		headroom := ceiling.Sub(declared)
		if !headroom.IsPositive() {
			continue
		}
		amount := headroom
		if sg.suggested.IsPositive() {
			amount = decimal.Min(sg.suggested, headroom)
		}

		typ := sg.typ
		saving, err := calculation.NetTaxSaving(s.rules, in.Profile, func(q *domain.FiscalProfile) {
			switch typ {
			case domain.ReductionDonations:
				q.Deductions.Donations = q.Deductions.Donations.Add(amount)
			case domain.ReductionHouseholdServices:
				q.Deductions.HouseholdServices = q.Deductions.HouseholdServices.Add(amount)
			case domain.ReductionChildcare:
				q.Deductions.Childcare = q.Deductions.Childcare.Add(amount)
			}
		})
		if err != nil {
			return out, err
		}
		if !saving.IsPositive() {
			continue
		}

		out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
			Title: sg.title,
			Description: fmt.Sprintf("%s of %s qualifies for a %s%% reduction; %s remains under the %s ceiling.",
				sg.typ, euros(amount), rule.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0), euros(headroom), euros(ceiling)),
			Category:           domain.CategoryDeduction,
			EstimatedImpact:    saving,
			Risk:               domain.LevelLow,
			Complexity:         domain.LevelLow,
			Confidence:         sg.confidence,
			RequiredInvestment: amount,
			ActionSteps:        sg.steps,
			Sources:            sg.sources,
			Deadline:           yearEnd(in.Profile.Year),
		}))
	}
	return out, nil
}
