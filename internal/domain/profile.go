package domain

import (
	"github.com/shopspring/decimal"
)

// FamilySituation is the household's civil status for the tax return.
type FamilySituation string

const (
	FamilySingle   FamilySituation = "single"
	FamilyMarried  FamilySituation = "married"
	FamilyPacsed   FamilySituation = "pacsed"
	FamilyDivorced FamilySituation = "divorced"
	FamilyWidowed  FamilySituation = "widowed"
)

// Valid reports whether the situation is one the engine knows.
func (f FamilySituation) Valid() bool {
	switch f {
	case FamilySingle, FamilyMarried, FamilyPacsed, FamilyDivorced, FamilyWidowed:
		return true
	}
	return false
}

// IsCouple reports whether the household files jointly.
func (f FamilySituation) IsCouple() bool {
	return f == FamilyMarried || f == FamilyPacsed
}

// Level grades risk and complexity of a recommendation.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Rank orders levels; unknown levels rank above high.
func (l Level) Rank() int {
	switch l {
	case LevelLow:
		return 0
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	}
	return 3
}

// RiskTolerance is the taxpayer's appetite for investment risk.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskBalanced     RiskTolerance = "balanced"
	RiskDynamic      RiskTolerance = "dynamic"
)

// Rank orders tolerances; unknown values rank below conservative.
func (r RiskTolerance) Rank() int {
	switch r {
	case RiskConservative:
		return 0
	case RiskBalanced:
		return 1
	case RiskDynamic:
		return 2
	}
	return -1
}

// Valid reports whether the tolerance is one the engine knows.
func (r RiskTolerance) Valid() bool {
	return r.Rank() >= 0
}

// Accepts reports whether a taxpayer with tolerance r accepts a product that
// requires at least min.
func (r RiskTolerance) Accepts(min RiskTolerance) bool {
	return r.Rank() >= min.Rank()
}

// OtherIncome holds the non-professional income components.
type OtherIncome struct {
	Salary  decimal.Decimal `yaml:"salary" json:"salary"`
	Rental  decimal.Decimal `yaml:"rental" json:"rental"`
	Capital decimal.Decimal `yaml:"capital" json:"capital"`
	// ReferenceIncome is the prior-year reference income; optional.
	ReferenceIncome *decimal.Decimal `yaml:"reference_income,omitempty" json:"reference_income,omitempty"`
}

// Total sums the components subject to the progressive scale.
func (o OtherIncome) Total() decimal.Decimal {
	return o.Salary.Add(o.Rental).Add(o.Capital)
}

// DeclaredDeductions holds amounts already declared by the taxpayer.
type DeclaredDeductions struct {
	RetirementContributions decimal.Decimal `yaml:"retirement_contributions" json:"retirement_contributions"`
	Donations               decimal.Decimal `yaml:"donations" json:"donations"`
	HouseholdServices       decimal.Decimal `yaml:"household_services" json:"household_services"`
	Childcare               decimal.Decimal `yaml:"childcare" json:"childcare"`
}

// Amount returns the declared amount for a reduction type.
func (d DeclaredDeductions) Amount(t ReductionType) decimal.Decimal {
	switch t {
	case ReductionDonations:
		return d.Donations
	case ReductionHouseholdServices:
		return d.HouseholdServices
	case ReductionChildcare:
		return d.Childcare
	}
	return decimal.Zero
}

// FiscalProfile is the validated input of one engine invocation.
// It is treated as immutable once handed to the engine.
type FiscalProfile struct {
	Year                    int                `yaml:"year" json:"year"`
	FamilySituation         FamilySituation    `yaml:"family_situation" json:"family_situation"`
	Parts                   decimal.Decimal    `yaml:"parts" json:"parts"`
	Children                int                `yaml:"children" json:"children"`
	YoungChildren           int                `yaml:"young_children" json:"young_children"`
	Regime                  Regime             `yaml:"regime" json:"regime"`
	ActivityClass           ActivityClass      `yaml:"activity_class" json:"activity_class"`
	PERStatus               string             `yaml:"per_status,omitempty" json:"per_status,omitempty"`
	Revenue                 decimal.Decimal    `yaml:"revenue" json:"revenue"`
	DeductibleExpenses      decimal.Decimal    `yaml:"deductible_expenses" json:"deductible_expenses"`
	SocialContributionsPaid *decimal.Decimal   `yaml:"social_contributions_paid,omitempty" json:"social_contributions_paid,omitempty"`
	Income                  OtherIncome        `yaml:"income" json:"income"`
	Deductions              DeclaredDeductions `yaml:"deductions" json:"deductions"`
	RiskTolerance           *RiskTolerance     `yaml:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"`
	InvestmentCapacity      *decimal.Decimal   `yaml:"investment_capacity,omitempty" json:"investment_capacity,omitempty"`
}

// RegimeLabel returns the abattement key for the profile's regime.
func (p *FiscalProfile) RegimeLabel() string {
	return RegimeLabel(p.Regime, p.ActivityClass)
}

// Units returns the household count a per_unit ceiling refers to.
func (p *FiscalProfile) Units(u CountUnit) int {
	if u == UnitYoungChildren {
		return p.YoungChildren
	}
	return p.Children
}

// WithRegime returns a copy of the profile under another regime.
func (p FiscalProfile) WithRegime(r Regime) FiscalProfile {
	p.Regime = r
	return p
}

// OptimizationContext carries the non-fiscal inputs of an optimization run.
// Nil fields fall back to the profile's values.
type OptimizationContext struct {
	RiskTolerance     *RiskTolerance   `yaml:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"`
	InvestableCapital *decimal.Decimal `yaml:"investable_capital,omitempty" json:"investable_capital,omitempty"`
}
