package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaxParts bounds the number of fiscal parts a household may declare.
var MaxParts = decimal.NewFromInt(10)

// ProfileDocument is the on-disk form of a fiscal profile: the profile fields
// at top level plus an optional optimization context.
type ProfileDocument struct {
	Profile domain.FiscalProfile       `yaml:",inline"`
	Context domain.OptimizationContext `yaml:"context"`
}

// InputParser handles parsing of fiscal profile files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a profile document from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*ProfileDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a profile document
func (ip *InputParser) Parse(data []byte) (*ProfileDocument, error) {
	var doc ProfileDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ValidateProfile(&doc.Profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	if err := ValidateContext(&doc.Context); err != nil {
		return nil, fmt.Errorf("context validation failed: %w", err)
	}
	return &doc, nil
}

func invalid(field, constraint string, value any) error {
	return &domain.ValidationError{Field: field, Constraint: constraint, Value: value}
}

// ValidateProfile rejects out-of-range profile values. Nothing is coerced or
// defaulted; the first violation is returned as a *domain.ValidationError.
func ValidateProfile(p *domain.FiscalProfile) error {
	if p.Year <= 0 {
		return invalid("year", "must be positive", p.Year)
	}
	if !p.FamilySituation.Valid() {
		return invalid("family_situation", "must be single, married, pacsed, divorced or widowed", p.FamilySituation)
	}
	if !p.Parts.IsPositive() {
		return invalid("parts", "must be greater than 0", p.Parts)
	}
	if p.Parts.GreaterThan(MaxParts) {
		return invalid("parts", "must not exceed "+MaxParts.String(), p.Parts)
	}
	if p.Children < 0 {
		return invalid("children", "cannot be negative", p.Children)
	}
	if p.YoungChildren < 0 || p.YoungChildren > p.Children {
		return invalid("young_children", "must be between 0 and children", p.YoungChildren)
	}
	if !p.Regime.Valid() {
		return invalid("regime", "must be micro or reel", p.Regime)
	}
	if !p.ActivityClass.Valid() {
		return invalid("activity_class", "must be bnc, bic_services or bic_vente", p.ActivityClass)
	}

	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"revenue", p.Revenue},
		{"deductible_expenses", p.DeductibleExpenses},
		{"income.salary", p.Income.Salary},
		{"income.rental", p.Income.Rental},
		{"income.capital", p.Income.Capital},
		{"deductions.retirement_contributions", p.Deductions.RetirementContributions},
		{"deductions.donations", p.Deductions.Donations},
		{"deductions.household_services", p.Deductions.HouseholdServices},
		{"deductions.childcare", p.Deductions.Childcare},
	}
	for _, nn := range nonNegative {
		if nn.value.IsNegative() {
			return invalid(nn.field, "cannot be negative", nn.value)
		}
	}

	if p.Income.ReferenceIncome != nil && p.Income.ReferenceIncome.IsNegative() {
		return invalid("income.reference_income", "cannot be negative", *p.Income.ReferenceIncome)
	}
	if p.SocialContributionsPaid != nil && p.SocialContributionsPaid.IsNegative() {
		return invalid("social_contributions_paid", "cannot be negative", *p.SocialContributionsPaid)
	}
	if p.RiskTolerance != nil && !p.RiskTolerance.Valid() {
		return invalid("risk_tolerance", "must be conservative, balanced or dynamic", *p.RiskTolerance)
	}
	if p.InvestmentCapacity != nil && p.InvestmentCapacity.IsNegative() {
		return invalid("investment_capacity", "cannot be negative", *p.InvestmentCapacity)
	}
	return nil
}

// ValidateHousehold checks the declared parts against the household under
// rs: at least the base parts of the family situation plus the increments of
// every dependent child. More is accepted since situational half parts are
// declared rather than derived.
func ValidateHousehold(rs *domain.RuleSet, p *domain.FiscalProfile) error {
	minimum := rs.QuotientFamilial.MinimumParts(p.FamilySituation, p.Children)
	if p.Parts.LessThan(minimum) {
		return invalid("parts", fmt.Sprintf("must be at least %s for a %s household with %d children",
			minimum.String(), p.FamilySituation, p.Children), p.Parts)
	}
	return nil
}

// ValidateContext checks the optional optimization context.
func ValidateContext(c *domain.OptimizationContext) error {
	if c.RiskTolerance != nil && !c.RiskTolerance.Valid() {
		return invalid("context.risk_tolerance", "must be conservative, balanced or dynamic", *c.RiskTolerance)
	}
	if c.InvestableCapital != nil && c.InvestableCapital.IsNegative() {
		return invalid("context.investable_capital", "cannot be negative", *c.InvestableCapital)
	}
	return nil
}
