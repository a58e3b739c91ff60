package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Micro regimes tax revenue * (1 - abattement[regime label]); declared
//    expenses are ignored.
// 2. Réel regimes tax revenue - deductible expenses. A negative result is
//    carried only when the rule document sets allow_professional_loss.
// 3. Salary, rental and capital income are added as declared (already net).
// 4. The PER deduction reduces taxable income by its deductible part only.
// 5. The bracket scale is applied to max(0, taxable) / parts.

// TaxableProfessionalIncome returns the professional income subject to the
// scale under the profile's regime.
func TaxableProfessionalIncome(rs *domain.RuleSet, p *domain.FiscalProfile) (decimal.Decimal, error) {
	switch p.Regime {
	case domain.RegimeMicro:
		label := p.RegimeLabel()
		rate, ok := rs.Abattement(label)
		if !ok {
			return decimal.Zero, &domain.ConfigurationError{Year: rs.Year, Key: "abattements." + label, Reason: "missing"}
		}
		return p.Revenue.Mul(decimal.NewFromInt(1).Sub(rate)), nil
	case domain.RegimeReel:
		income := p.Revenue.Sub(p.DeductibleExpenses)
		if income.IsNegative() && !rs.AllowProfessionalLoss {
			income = decimal.Zero
		}
		return income, nil
	default:
		return decimal.Zero, &domain.ValidationError{Field: "regime", Constraint: "must be micro or reel", Value: p.Regime}
	}
}

// incomeTaxAssessment holds the income tax computed for one regime.
type incomeTaxAssessment struct {
	professional decimal.Decimal
	total        decimal.Decimal
	per          domain.PERApplication
	afterPER     decimal.Decimal
	scaleBase    decimal.Decimal
	partIncome   decimal.Decimal
	lines        []domain.BracketLine
	gross        decimal.Decimal
	reductions   []domain.AppliedReduction
	totalRed     decimal.Decimal
	net          decimal.Decimal
	marginal     decimal.Decimal
}

// assessIncomeTax runs the income tax pipeline for a profile. The regime
// comparison calls it once per regime so both sides share every formula.
func assessIncomeTax(rs *domain.RuleSet, p *domain.FiscalProfile) (*incomeTaxAssessment, error) {
	a := &incomeTaxAssessment{}

	professional, err := TaxableProfessionalIncome(rs, p)
	if err != nil {
		return nil, err
	}
	a.professional = professional
	a.total = professional.Add(p.Income.Total())

	a.per, err = ApplyPER(rs, p.Deductions.RetirementContributions, p.Revenue, p.PERStatus)
	if err != nil {
		return nil, err
	}
	a.afterPER = a.total.Sub(a.per.Deductible)

	a.scaleBase = a.afterPER
	if a.scaleBase.IsNegative() {
		a.scaleBase = decimal.Zero
	}

	a.partIncome, err = PartIncome(a.scaleBase, p.Parts)
	if err != nil {
		return nil, err
	}

	a.lines, _ = ProgressiveTax(a.partIncome, rs.Brackets)
	a.gross = GrossTax(a.lines, p.Parts)
	a.marginal = MarginalRate(a.partIncome, rs.Brackets)

	a.reductions, a.totalRed, err = ApplyReductions(rs, p, a.scaleBase)
	if err != nil {
		return nil, err
	}
	a.net = a.gross.Sub(a.totalRed)
	if a.net.IsNegative() {
		a.net = decimal.Zero
	}
	return a, nil
}

// CheckThreshold reports whether revenue approaches the micro ceiling of its
// activity class: approaching iff revenue/threshold is in [alert_ratio, 1).
func CheckThreshold(rs *domain.RuleSet, revenue decimal.Decimal, class domain.ActivityClass) (domain.ThresholdProximity, error) {
	threshold, ok := rs.MicroThreshold(class)
	if !ok {
		return domain.ThresholdProximity{}, &domain.ConfigurationError{Year: rs.Year, Key: "micro_thresholds." + string(class), Reason: "missing"}
	}
	if !threshold.IsPositive() {
		return domain.ThresholdProximity{}, &domain.ConfigurationError{Year: rs.Year, Key: "micro_thresholds." + string(class), Reason: "must be positive"}
	}
	ratio := revenue.Div(threshold)
	headroom := threshold.Sub(revenue)
	if headroom.IsNegative() {
		headroom = decimal.Zero
	}
	one := decimal.NewFromInt(1)
	return domain.ThresholdProximity{
		Threshold:   threshold,
		Ratio:       ratio,
		Headroom:    headroom,
		Approaching: ratio.GreaterThanOrEqual(rs.ThresholdAlertRatio) && ratio.LessThan(one),
		Exceeded:    revenue.GreaterThan(threshold),
	}, nil
}

func thresholdWarning(class domain.ActivityClass, tp domain.ThresholdProximity) string {
	return fmt.Sprintf("revenue is at %s%% of the %s micro threshold (%s); headroom %s",
		tp.Ratio.Mul(decimal.NewFromInt(100)).StringFixed(1), class, tp.Threshold.StringFixed(0), tp.Headroom.StringFixed(2))
}
