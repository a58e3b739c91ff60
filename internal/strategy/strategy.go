package strategy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Strategy names, in evaluation order.
const (
	NameRegimeSwitch     = "regime_switch"
	NamePERTopUp         = "per_top_up"
	NameFurnishedRental  = "furnished_rental"
	NameOverseas         = "overseas_investment"
	NameInnovationFund   = "innovation_fund"
	NameSimpleDeductions = "simple_deductions"
	NameCompanyStructure = "company_structure"
)

// ErrNoRules is returned when a strategy is built or run without a rule set.
var ErrNoRules = errors.New("strategy requires a rule set")

// Input is what every strategy reads: the calculator's result for the
// profile and the optimization context.
type Input struct {
	Tax     *domain.TaxCalculationResult
	Profile *domain.FiscalProfile
	Context domain.OptimizationContext
}

// Outcome is the output of one evaluation. Warnings report missing inputs a
// strategy had to work around.
type Outcome struct {
	Recommendations []domain.Recommendation
	Warnings        []string
}

func (o *Outcome) warn(format string, args ...interface{}) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// Strategy evaluates one savings opportunity.
type Strategy interface {
	Name() string
	Evaluate(in Input) (Outcome, error)
}

// Names lists every strategy in evaluation order.
func Names() []string {
	return []string{
		NameRegimeSwitch,
		NamePERTopUp,
		NameFurnishedRental,
		NameOverseas,
		NameInnovationFund,
		NameSimpleDeductions,
		NameCompanyStructure,
	}
}

// New creates the strategy registered under name.
func New(name string, rs *domain.RuleSet) (Strategy, error) {
	switch name {
	case NameRegimeSwitch:
		return NewRegimeSwitchStrategy(rs)
	case NamePERTopUp:
		return NewPERStrategy(rs)
	case NameFurnishedRental:
		return NewFurnishedRentalStrategy(rs)
	case NameOverseas:
		return NewOverseasStrategy(rs)
	case NameInnovationFund:
		return NewInnovationFundStrategy(rs)
	case NameSimpleDeductions:
		return NewSimpleDeductionsStrategy(rs)
	case NameCompanyStructure:
		return NewCompanyStructureStrategy(rs)
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// All creates every strategy bound to rs, in evaluation order.
func All(rs *domain.RuleSet) ([]Strategy, error) {
	names := Names()
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, err := New(name, rs)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// base carries the rule set every strategy must be built with.
type base struct {
	rules *domain.RuleSet
}

func newBase(rs *domain.RuleSet) (base, error) {
	if rs == nil {
		return base{}, ErrNoRules
	}
	return base{rules: rs}, nil
}

// check rejects inputs a strategy cannot evaluate.
func (b base) check(in Input) error {
	if b.rules == nil {
		return ErrNoRules
	}
	if in.Tax == nil {
		return &domain.ValidationError{Field: "tax_result", Constraint: "is required", Value: nil}
	}
	if in.Profile == nil {
		return &domain.ValidationError{Field: "profile", Constraint: "is required", Value: nil}
	}
	if in.Tax.Year != b.rules.Year || in.Profile.Year != b.rules.Year {
		return &domain.ConfigurationError{
			Year:   in.Profile.Year,
			Key:    "year",
			Reason: fmt.Sprintf("rule set is for %d, tax result for %d", b.rules.Year, in.Tax.Year),
		}
	}
	return nil
}

var recommendationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/rgehrsitz/fiscopt/recommendation"))

// recommend stamps the fields every recommendation shares. The ID is derived
// from year, strategy and title so identical runs yield identical IDs.
func (b base) recommend(strategy string, r domain.Recommendation) domain.Recommendation {
	r.Strategy = strategy
	r.ID = uuid.NewSHA1(recommendationNamespace, []byte(fmt.Sprintf("%d|%s|%s", b.rules.Year, strategy, r.Title))).String()
	r.EstimatedImpact = r.EstimatedImpact.Round(2)
	r.RequiredInvestment = r.RequiredInvestment.Round(2)
	return r
}

// capital resolves investable capital; the context wins over the profile.
func (in Input) capital() (decimal.Decimal, bool) {
	if in.Context.InvestableCapital != nil {
		return *in.Context.InvestableCapital, true
	}
	if in.Profile.InvestmentCapacity != nil {
		return *in.Profile.InvestmentCapacity, true
	}
	return decimal.Zero, false
}

// risk resolves the risk tolerance; the context wins over the profile.
func (in Input) risk() (domain.RiskTolerance, bool) {
	if in.Context.RiskTolerance != nil {
		return *in.Context.RiskTolerance, true
	}
	if in.Profile.RiskTolerance != nil {
		return *in.Profile.RiskTolerance, true
	}
	return "", false
}

func yearEnd(year int) string {
	return fmt.Sprintf("%d-12-31", year)
}

func euros(d decimal.Decimal) string {
	return d.StringFixed(2) + " EUR"
}
