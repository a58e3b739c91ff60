package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// RegimeBurden computes tax plus contributions for the profile as if it were
// taxed under regime r. Contributions depend only on revenue and activity
// class, so they are identical under both regimes.
func RegimeBurden(rs *domain.RuleSet, p *domain.FiscalProfile, r domain.Regime) (domain.RegimeBurden, error) {
	variant := p.WithRegime(r)
	a, err := assessIncomeTax(rs, &variant)
	if err != nil {
		return domain.RegimeBurden{}, err
	}
	contributions, _, err := ExpectedContributions(rs, p.Revenue, p.ActivityClass)
	if err != nil {
		return domain.RegimeBurden{}, err
	}

	available := true
	if r == domain.RegimeMicro {
		threshold, ok := rs.MicroThreshold(p.ActivityClass)
		if !ok {
			return domain.RegimeBurden{}, &domain.ConfigurationError{Year: rs.Year, Key: "micro_thresholds." + string(p.ActivityClass), Reason: "missing"}
		}
		available = p.Revenue.LessThanOrEqual(threshold)
	}

	return domain.RegimeBurden{
		Regime:        r,
		TaxableIncome: a.afterPER,
		Tax:           a.net,
		Contributions: contributions,
		Total:         a.net.Add(contributions),
		Available:     available,
	}, nil
}

// CompareRegimes computes the burden under micro and réel on the same revenue
// and recommends the lower one. An exact tie keeps the current regime. A
// regime that is not available (micro above its threshold) is never
// recommended.
func CompareRegimes(rs *domain.RuleSet, p *domain.FiscalProfile) (domain.ComparisonResult, error) {
	micro, err := RegimeBurden(rs, p, domain.RegimeMicro)
	if err != nil {
		return domain.ComparisonResult{}, err
	}
	reel, err := RegimeBurden(rs, p, domain.RegimeReel)
	if err != nil {
		return domain.ComparisonResult{}, err
	}

	c := domain.ComparisonResult{
		Current:           p.Regime,
		Micro:             micro,
		Reel:              reel,
		TaxDelta:          reel.Tax.Sub(micro.Tax),
		ContributionDelta: reel.Contributions.Sub(micro.Contributions),
	}

	current := c.Burden(p.Regime)
	other := c.Burden(p.Regime.Other())

	switch {
	case !current.Available:
		c.Recommended = other.Regime
		c.Justification = fmt.Sprintf("revenue %s exceeds the %s micro threshold; the %s regime is mandatory",
			p.Revenue.StringFixed(2), p.ActivityClass, other.Regime)
	case !other.Available:
		c.Recommended = current.Regime
		c.Justification = fmt.Sprintf("revenue %s exceeds the %s micro threshold; staying on %s",
			p.Revenue.StringFixed(2), p.ActivityClass, current.Regime)
	case other.Total.LessThan(current.Total):
		c.Recommended = other.Regime
		c.Justification = fmt.Sprintf("%s burden %s is lower than %s burden %s",
			other.Regime, other.Total.StringFixed(2), current.Regime, current.Total.StringFixed(2))
	case other.Total.Equal(current.Total):
		c.Recommended = current.Regime
		c.Justification = fmt.Sprintf("both regimes cost %s; keeping the current %s regime",
			current.Total.StringFixed(2), current.Regime)
	default:
		c.Recommended = current.Regime
		c.Justification = fmt.Sprintf("%s burden %s is lower than %s burden %s",
			current.Regime, current.Total.StringFixed(2), other.Regime, other.Total.StringFixed(2))
	}

	recommended := c.Burden(c.Recommended)
	alternative := c.Burden(c.Recommended.Other())
	if alternative.Available {
		saving := alternative.Total.Sub(recommended.Total)
		if saving.IsPositive() {
			c.PotentialSaving = saving
			if alternative.Total.IsPositive() {
				c.PercentageSaving = saving.Div(alternative.Total).Mul(decimal.NewFromInt(100)).Round(2)
			}
		}
	}
	return c, nil
}
