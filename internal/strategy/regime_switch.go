package strategy

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeSwitchStrategy recommends the regime the calculator's comparison
// found cheaper, when the saving reaches the configured minimum. A switch
// forced by the micro threshold is always reported.
type RegimeSwitchStrategy struct {
	base
}

func NewRegimeSwitchStrategy(rs *domain.RuleSet) (*RegimeSwitchStrategy, error) {
	b, err := newBase(rs)
	if err != nil {
		return nil, err
	}
	return &RegimeSwitchStrategy{base: b}, nil
}

func (s *RegimeSwitchStrategy) Name() string { return NameRegimeSwitch }

func (s *RegimeSwitchStrategy) Evaluate(in Input) (Outcome, error) {
	var out Outcome
	if err := s.check(in); err != nil {
		return out, err
	}
	p, c := in.Profile, in.Tax.Comparison

	if p.Regime == domain.RegimeMicro {
		if p.DeductibleExpenses.IsZero() {
			out.warn("%s: no deductible expenses provided; the réel estimate assumes none", s.Name())
		}
		if in.Tax.Threshold.Approaching {
			out.warn("%s: revenue is %s below the micro threshold; exceeding it forces the réel regime",
				s.Name(), euros(in.Tax.Threshold.Headroom))
		}
	}

	if c.Recommended == c.Current {
		return out, nil
	}

	current, target := c.Burden(c.Current), c.Burden(c.Recommended)
	label := domain.RegimeLabel(c.Recommended, p.ActivityClass)

	if !current.Available {
		out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
			Title: fmt.Sprintf("Move to the %s regime", label),
			Description: fmt.Sprintf("Revenue of %s exceeds the %s micro threshold of %s. The micro regime no longer applies.",
				euros(p.Revenue), p.ActivityClass, euros(in.Tax.Threshold.Threshold)),
			Category:        domain.CategoryRegime,
			EstimatedImpact: decimal.Zero,
			Risk:            domain.LevelLow,
			Complexity:      domain.LevelMedium,
			Confidence:      decimal.NewFromInt(1),
			ActionSteps: []string{
				"Keep itemized accounts of every professional expense",
				fmt.Sprintf("Declare professional income under %s with the %d return", label, p.Year),
			},
			Sources: []string{"CGI art. 50-0", "CGI art. 102 ter"},
		}))
		return out, nil
	}

	if c.PotentialSaving.LessThan(s.rules.Strategies.RegimeSwitch.MinSaving) {
		return out, nil
	}

	confidence := decimal.NewFromFloat(0.9)
	if c.Recommended == domain.RegimeReel && p.DeductibleExpenses.IsZero() {
		confidence = decimal.NewFromFloat(0.6)
	}

	out.Recommendations = append(out.Recommendations, s.recommend(s.Name(), domain.Recommendation{
		Title: fmt.Sprintf("Switch to the %s regime", label),
		Description: fmt.Sprintf("Tax plus contributions fall from %s under %s to %s under %s (%s%% less). %s.",
			euros(current.Total), c.Current, euros(target.Total), c.Recommended, c.PercentageSaving.StringFixed(2), c.Justification),
		Category:        domain.CategoryRegime,
		EstimatedImpact: c.PotentialSaving,
		Risk:            domain.LevelLow,
		Complexity:      regimeComplexity(c.Recommended),
		Confidence:      confidence,
		ActionSteps: []string{
			fmt.Sprintf("Opt for the %s regime before filing the %d return", c.Recommended, p.Year),
			"Check the option's minimum commitment period with the tax office",
		},
		Sources: []string{"CGI art. 50-0", "CGI art. 102 ter", "CGI art. 93"},
	}))
	return out, nil
}

func regimeComplexity(r domain.Regime) domain.Level {
	if r == domain.RegimeReel {
		return domain.LevelMedium
	}
	return domain.LevelLow
}
