package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpectedContributions returns revenue * rate[class].
func ExpectedContributions(rs *domain.RuleSet, revenue decimal.Decimal, class domain.ActivityClass) (decimal.Decimal, decimal.Decimal, error) {
	rate, ok := rs.SocialRate(class)
	if !ok {
		return decimal.Zero, decimal.Zero, &domain.ConfigurationError{Year: rs.Year, Key: "social_contribution_rates." + string(class), Reason: "missing"}
	}
	return revenue.Mul(rate), rate, nil
}

// AssessContributions compares expected and paid contributions. A delta
// beyond the configured tolerance yields a warning, never an error. A missing
// paid amount is reported as a data-completeness warning.
func AssessContributions(rs *domain.RuleSet, revenue decimal.Decimal, class domain.ActivityClass, paid *decimal.Decimal) (domain.SocialContributions, []string, error) {
	expected, rate, err := ExpectedContributions(rs, revenue, class)
	if err != nil {
		return domain.SocialContributions{}, nil, err
	}
	sc := domain.SocialContributions{Rate: rate, Expected: expected}

	if paid == nil {
		return sc, []string{"social contributions paid not declared; delta not assessed"}, nil
	}

	p := *paid
	delta := p.Sub(expected)
	sc.Paid = &p
	sc.Delta = &delta

	var warnings []string
	if delta.Abs().GreaterThan(rs.SocialContributionTolerance) {
		if delta.IsNegative() {
			warnings = append(warnings, fmt.Sprintf("social contributions underpaid by %s (expected %s, paid %s)",
				delta.Abs().StringFixed(2), expected.StringFixed(2), p.StringFixed(2)))
		} else {
			warnings = append(warnings, fmt.Sprintf("social contributions overpaid by %s (expected %s, paid %s)",
				delta.StringFixed(2), expected.StringFixed(2), p.StringFixed(2)))
		}
	}
	return sc, warnings, nil
}
