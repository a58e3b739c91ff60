package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// FurnishedRentalStrategy estimates the tax shielded by depreciation on a
// furnished rental (LMNP) bought with the investable capital.
//
// Eligible when TMI >= min_marginal_rate and capital >= min_capital.
// rent = capital * gross_yield, depreciation = capital * depreciation_rate,
// impact = min(rent, depreciation) * (TMI + social_levy_rate).
type FurnishedRentalStrategy struct {
	base
}

func NewFurnishedRentalStrategy(rs *domain.RuleSet) (*FurnishedRentalStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &FurnishedRentalStrategy{base: b}, nil
}

func (s *FurnishedRentalStrategy) Name() string { return NameFurnishedRental }

func (s *FurnishedRentalStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	cfg := s.rules.Strategies.FurnishedRental
	tmi := in.Tax.MarginalRate

	if tmi.LessThan(cfg.MinMarginalRate) {
		return out, nil
	}
	capital, ok := in.capital()
	if !ok {
		out.warn("%s: investable capital not provided; furnished rental not assessed", s.Name())
		return out, nil
	}
	if capital.LessThan(cfg.MinCapital) {
		return out, nil
	}

	rent := capital.Mul(cfg.GrossYield)
	depreciation := capital.Mul(cfg.DepreciationRate)
	shielded := decimal.Min(rent, depreciation)
	impact := shielded.Mul(tmi.Add(cfg.SocialLevyRate))
	if !impact.IsPositive() {
		return out, nil
	}

	out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
		Title: "Invest in a furnished rental (LMNP)",
		Description: fmt.Sprintf("A %s furnished rental yields about %s of rent a year; depreciation of %s a year keeps %s of it out of income tax and social levies.",
			euros(capital), euros(rent), euros(depreciation), euros(shielded)),
		Category:           domain.CategoryInvestment,
		EstimatedImpact:    impact,
		Risk:               domain.LevelMedium,
		Complexity:         domain.LevelHigh,
		Confidence:         decimal.NewFromFloat(0.6),
		RequiredInvestment: capital,
		ActionSteps: []string{
			"Select a furnished property and check local rental demand",
			"Register the activity with the business formalities office",
			"Elect the réel regime for rental income to deduct depreciation",
			"Appoint an accountant for the annual BIC return",
		},
		Sources: []string{"CGI art. 39 C", "CGI art. 50-0", "BOI-BIC-AMT-20-40-60"},
	}))
	return out, nil
}
