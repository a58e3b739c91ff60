package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// OverseasStrategy sizes an overseas productive investment credit
// (Girardin). The credit exceeds the amount invested by reduction_rate, so
// impact = credit - investment.
//
// Eligible when net tax >= min_net_tax and the risk tolerance accepts
// min_risk. credit = min(net tax, ceiling), investment = credit /
// reduction_rate, both scaled down when capital is short.
type OverseasStrategy struct {
	base
}

func NewOverseasStrategy(rs *domain.RuleSet) (*OverseasStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &OverseasStrategy{base: b}, nil
}

func (s *OverseasStrategy) Name() string { return NameOverseas }

func (s *OverseasStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	cfg := s.rules.Strategies.Overseas
	net := in.Tax.NetTax

	if net.LessThan(cfg.MinNetTax) {
		return out, nil
	}
	risk, ok := in.risk()
	if !ok {
		out.warn("%s: risk tolerance not provided; overseas investment not assessed", s.Name())
		return out, nil
	}
	if !risk.Accepts(cfg.MinRisk) {
		return out, nil
	}

	credit := decimal.Min(net, cfg.Ceiling)
	investment := credit.Div(cfg.ReductionRate).Round(2)
	if capital, ok := in.capital(); ok {
		if capital.LessThan(investment) {
			investment = capital
			credit = capital.Mul(cfg.ReductionRate).Round(2)
		}
	} else {
		out.warn("%s: investable capital not provided; investment sized on tax liability alone", s.Name())
	}
	impact := credit.Sub(investment)
	if !impact.IsPositive() {
		return out, nil
	}

	out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
		Title: "Fund an overseas productive investment (Girardin)",
		Description: fmt.Sprintf("Investing %s (not recovered) yields a one-off tax credit of %s against %s of net tax.",
			euros(investment), euros(credit), euros(net)),
		Category:           domain.CategoryInvestment,
		EstimatedImpact:    impact,
		Risk:               domain.LevelHigh,
		Complexity:         domain.LevelHigh,
		Confidence:         decimal.NewFromFloat(0.5),
		RequiredInvestment: investment,
		ActionSteps: []string{
			"Select an operator with a track record of completed programmes",
			"Check the operator's guarantee against credit recapture",
			fmt.Sprintf("Subscribe %s before year end", euros(investment)),
		},
		Sources:  []string{"CGI art. 199 undecies B", "CGI art. 200-0 A"},
		Deadline: yearEnd(in.Profile.Year),
	}))
	return out, nil
}
