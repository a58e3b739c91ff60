package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// InnovationFundStrategy sizes a subscription to an innovation fund
// (FCPI/FIP).
//
// Eligible when net tax >= min_net_tax and the risk tolerance accepts
// min_risk. investment = min(household ceiling, net tax / reduction_rate,
// capital); impact = investment * reduction_rate.
type InnovationFundStrategy struct {
	base
}

func NewInnovationFundStrategy(rs *domain.RuleSet) (*InnovationFundStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &InnovationFundStrategy{base: b}, nil
}

func (s *InnovationFundStrategy) Name() string { return NameInnovationFund }

func (s *InnovationFundStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	cfg := s.rules.Strategies.InnovationFund
	net := in.Tax.NetTax

	if net.LessThan(cfg.MinNetTax) || !cfg.ReductionRate.IsPositive() {
		return out, nil
	}
	risk, ok := in.risk()
	if !ok {
		out.warn("%s: risk tolerance not provided; innovation fund not assessed", s.Name())
		return out, nil
	}
	if !risk.Accepts(cfg.MinRisk) {
		return out, nil
	}

	ceiling := cfg.CeilingSingle
	if in.Profile.FamilySituation.IsCouple() {
		ceiling = cfg.CeilingCouple
	}
	investment := decimal.Min(ceiling, net.Div(cfg.ReductionRate).Round(2))
	if capital, ok := in.capital(); ok {
		investment = decimal.Min(investment, capital)
	} else {
		out.warn("%s: investable capital not provided; subscription sized on the ceiling alone", s.Name())
	}
	impact := investment.Mul(cfg.ReductionRate)
	if !impact.IsPositive() {
		return out, nil
	}

	out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
		Title: "Subscribe to an innovation fund (FCPI/FIP)",
		Description: fmt.Sprintf("A %s subscription reduces income tax by %s%% of the amount, held for at least five years.",
			euros(investment), cfg.ReductionRate.Mul(decimal.NewFromInt(100)).StringFixed(0)),
		Category:           domain.CategoryInvestment,
		EstimatedImpact:    impact,
		Risk:               domain.LevelHigh,
		Complexity:         domain.LevelLow,
		Confidence:         decimal.NewFromFloat(0.7),
		RequiredInvestment: investment,
		ActionSteps: []string{
			"Compare fund fees and past liquidation values",
			fmt.Sprintf("Subscribe %s before year end", euros(investment)),
			"Keep the subscription certificate for the return",
		},
		Sources:  []string{"CGI art. 199 terdecies-0 A"},
		Deadline: yearEnd(in.Profile.Year),
	}))
	return out, nil
}
