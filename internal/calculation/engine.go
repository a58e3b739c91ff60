package calculation

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// RuleSource provides the RuleSet of a fiscal year. *config.RuleStore
// implements it.
type RuleSource interface {
	Load(year int) (*domain.RuleSet, error)
}

// CalculationEngine computes tax results from fiscal profiles
type CalculationEngine struct {
	Rules  RuleSource
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine reading rules from src
func NewCalculationEngine(src RuleSource) *CalculationEngine {
	return &CalculationEngine{
		Rules:  src,
		Logger: NopLogger{},
	}
}

// SetLogger installs a logger; nil restores the no-op logger
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// Calculate validates the profile, loads the rules of its year and computes
// the full result. Invalid input and unsupported years are rejected before
// any arithmetic runs.
func (ce *CalculationEngine) Calculate(profile *domain.FiscalProfile) (*domain.TaxCalculationResult, error) {
	if profile == nil {
		return nil, &domain.ValidationError{Field: "profile", Constraint: "is required", Value: nil}
	}
	if err := config.ValidateProfile(profile); err != nil {
		return nil, err
	}
	if ce.Rules == nil {
		return nil, fmt.Errorf("calculation engine has no rule source")
	}

	rs, err := ce.Rules.Load(profile.Year)
	if err != nil {
		ce.Logger.Warnf("rules for %d unavailable: %v", profile.Year, err)
		return nil, err
	}
	if err := config.ValidateHousehold(rs, profile); err != nil {
		return nil, err
	}
	ce.Logger.Debugf("calculating %s/%s profile for %d", profile.Regime, profile.ActivityClass, profile.Year)

	result, err := CalculateWithRules(rs, profile)
	if err != nil {
		return nil, err
	}
	ce.Logger.Infof("calculated %d: net tax %s, marginal rate %s, %d warnings",
		result.Year, result.NetTax.StringFixed(2), result.MarginalRate.String(), len(result.Warnings))
	return result, nil
}

// CalculateWithRules computes the result of a validated profile under rs.
// It is a pure function of its inputs.
func CalculateWithRules(rs *domain.RuleSet, p *domain.FiscalProfile) (*domain.TaxCalculationResult, error) {
	if rs.Year != p.Year {
		return nil, &domain.ConfigurationError{Year: p.Year, Key: "year", Reason: fmt.Sprintf("rule set is for %d", rs.Year)}
	}
	if err := preflight(rs, p); err != nil {
		return nil, err
	}

	a, err := assessIncomeTax(rs, p)
	if err != nil {
		return nil, err
	}

	var warnings []string

	social, socialWarnings, err := AssessContributions(rs, p.Revenue, p.ActivityClass, p.SocialContributionsPaid)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, socialWarnings...)

	comparison, err := CompareRegimes(rs, p)
	if err != nil {
		return nil, err
	}

	threshold, err := CheckThreshold(rs, p.Revenue, p.ActivityClass)
	if err != nil {
		return nil, err
	}
	if p.Regime == domain.RegimeMicro {
		switch {
		case threshold.Exceeded:
			warnings = append(warnings, fmt.Sprintf("revenue exceeds the %s micro threshold (%s); micro regime no longer applies",
				p.ActivityClass, threshold.Threshold.StringFixed(0)))
		case threshold.Approaching:
			warnings = append(warnings, thresholdWarning(p.ActivityClass, threshold))
		}
		if p.DeductibleExpenses.IsZero() {
			warnings = append(warnings, "no deductible expenses declared; réel comparison assumes zero expenses")
		}
	}

	if a.afterPER.IsNegative() {
		warnings = append(warnings, fmt.Sprintf("deficit of %s exceeds other income; taxable base floored at zero",
			a.afterPER.Abs().StringFixed(2)))
	}
	if a.per.Excess.IsPositive() {
		warnings = append(warnings, fmt.Sprintf("retirement contributions exceed the deduction ceiling by %s",
			a.per.Excess.StringFixed(2)))
	}
	for _, r := range a.reductions {
		if r.Excess.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("%s above ceiling by %s; excess not reduced", r.Type, r.Excess.StringFixed(2)))
		}
	}

	effective := decimal.Zero
	if a.scaleBase.IsPositive() {
		effective = a.net.Div(a.scaleBase).Round(4)
	}

	return &domain.TaxCalculationResult{
		Year:                      p.Year,
		Regime:                    p.Regime,
		ActivityClass:             p.ActivityClass,
		Parts:                     p.Parts,
		TaxableProfessionalIncome: a.professional,
		TotalTaxableIncome:        a.total,
		PER:                       a.per,
		TaxableIncomeAfterPER:     a.afterPER,
		PartIncome:                a.partIncome,
		GrossTax:                  a.gross,
		NetTax:                    a.net,
		MarginalRate:              a.marginal,
		EffectiveRate:             effective,
		Brackets:                  a.lines,
		Reductions:                a.reductions,
		TotalReductions:           a.totalRed,
		Social:                    social,
		Comparison:                comparison,
		Threshold:                 threshold,
		Warnings:                  warnings,
	}, nil
}

// preflight resolves every rule entry the profile references so a missing
// entry fails before arithmetic starts.
func preflight(rs *domain.RuleSet, p *domain.FiscalProfile) error {
	if len(rs.Brackets) == 0 {
		return &domain.ConfigurationError{Year: rs.Year, Key: "brackets", Reason: "missing"}
	}
	microLabel := domain.RegimeLabel(domain.RegimeMicro, p.ActivityClass)
	if _, ok := rs.Abattement(microLabel); !ok {
		return &domain.ConfigurationError{Year: rs.Year, Key: "abattements." + microLabel, Reason: "missing"}
	}
	if _, ok := rs.MicroThreshold(p.ActivityClass); !ok {
		return &domain.ConfigurationError{Year: rs.Year, Key: "micro_thresholds." + string(p.ActivityClass), Reason: "missing"}
	}
	if _, ok := rs.SocialRate(p.ActivityClass); !ok {
		return &domain.ConfigurationError{Year: rs.Year, Key: "social_contribution_rates." + string(p.ActivityClass), Reason: "missing"}
	}
	status := p.PERStatus
	if status == "" {
		status = domain.DefaultPERStatus
	}
	if _, ok := rs.PER.CeilingByStatus[status]; !ok {
		return &domain.ConfigurationError{Year: rs.Year, Key: "per.ceiling_by_status." + status, Reason: "no ceiling for status"}
	}
	return nil
}
