package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Regime is the taxation regime applied to professional revenue.
type Regime string

const (
	RegimeMicro Regime = "micro"
	RegimeReel  Regime = "reel"
)

// Valid reports whether the regime is one the engine knows.
func (r Regime) Valid() bool {
	return r == RegimeMicro || r == RegimeReel
}

// Other returns the regime a comparison is made against.
func (r Regime) Other() Regime {
	if r == RegimeMicro {
		return RegimeReel
	}
	return RegimeMicro
}

// ActivityClass drives abattement, threshold and contribution lookups.
type ActivityClass string

const (
	ActivityBNC         ActivityClass = "bnc"
	ActivityBICServices ActivityClass = "bic_services"
	ActivityBICVente    ActivityClass = "bic_vente"
)

// ActivityClasses lists every supported class in display order.
var ActivityClasses = []ActivityClass{ActivityBNC, ActivityBICServices, ActivityBICVente}

// Valid reports whether the class is one the engine knows.
func (a ActivityClass) Valid() bool {
	for _, c := range ActivityClasses {
		if c == a {
			return true
		}
	}
	return false
}

// RegimeLabel is the key used in the abattement table, e.g. "micro_bnc".
func RegimeLabel(r Regime, a ActivityClass) string {
	return string(r) + "_" + string(a)
}

// Bracket is one slice of the progressive scale. Upper is nil for the
// open-ended top bracket. Intervals are half-open: [Lower, Upper).
type Bracket struct {
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Contains reports whether income falls inside the bracket's own interval.
func (b Bracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Lower) {
		return false
	}
	return b.Upper == nil || income.LessThan(*b.Upper)
}

// DefaultPERStatus is the ceiling_by_status key used when a profile names none.
const DefaultPERStatus = "default"

// PERConfig holds the retirement savings deduction ceiling rules.
type PERConfig struct {
	PercentageRate  decimal.Decimal            `yaml:"percentage_rate" json:"percentage_rate"`
	Floor           decimal.Decimal            `yaml:"floor" json:"floor"`
	CeilingByStatus map[string]decimal.Decimal `yaml:"ceiling_by_status" json:"ceiling_by_status"`
}

// CeilingKind selects how a reduction ceiling is computed.
type CeilingKind string

const (
	CeilingFixed           CeilingKind = "fixed"
	CeilingPerUnit         CeilingKind = "per_unit"
	CeilingPercentOfIncome CeilingKind = "percent_of_income"
)

// CeilingRule describes a reduction ceiling.
//
// fixed:             Amount
// per_unit:          Amount + PerUnit * units, capped at Max when Max is set
// percent_of_income: Amount (a rate) * taxable income
//
// Unit names the profile count used by per_unit ceilings.
type CeilingRule struct {
	Kind    CeilingKind      `yaml:"kind" json:"kind"`
	Amount  decimal.Decimal  `yaml:"amount" json:"amount"`
	PerUnit decimal.Decimal  `yaml:"per_unit,omitempty" json:"per_unit"`
	Unit    CountUnit        `yaml:"unit,omitempty" json:"unit,omitempty"`
	Max     *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
}

// CountUnit selects which household count a per_unit ceiling multiplies.
type CountUnit string

const (
	UnitChildren      CountUnit = "children"
	UnitYoungChildren CountUnit = "young_children"
)

// ReductionType identifies a tax reduction.
type ReductionType string

const (
	ReductionDonations         ReductionType = "donations"
	ReductionHouseholdServices ReductionType = "household_services"
	ReductionChildcare         ReductionType = "childcare"
)

// ReductionTypes lists reductions in the order they are applied.
var ReductionTypes = []ReductionType{ReductionDonations, ReductionHouseholdServices, ReductionChildcare}

// ReductionConfig is the rate and ceiling of one reduction type.
type ReductionConfig struct {
	Rate    decimal.Decimal `yaml:"rate" json:"rate"`
	Ceiling CeilingRule     `yaml:"ceiling" json:"ceiling"`
}

// CorporateTaxBracket is a slice of the corporate income tax scale.
type CorporateTaxBracket struct {
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// StrategyRules groups every constant used by the optimization strategies.
type StrategyRules struct {
	RegimeSwitch     RegimeSwitchRules     `yaml:"regime_switch" json:"regime_switch"`
	PER              PERStrategyRules      `yaml:"per" json:"per"`
	FurnishedRental  FurnishedRentalRules  `yaml:"furnished_rental" json:"furnished_rental"`
	Overseas         OverseasRules         `yaml:"overseas" json:"overseas"`
	InnovationFund   InnovationFundRules   `yaml:"innovation_fund" json:"innovation_fund"`
	SimpleDeductions SimpleDeductionRules  `yaml:"simple_deductions" json:"simple_deductions"`
	CompanyStructure CompanyStructureRules `yaml:"company_structure" json:"company_structure"`
}

// RegimeSwitchRules gates the regime change recommendation.
type RegimeSwitchRules struct {
	MinSaving decimal.Decimal `yaml:"min_saving" json:"min_saving"`
}

// PERStrategyRules gates the retirement savings top-up.
type PERStrategyRules struct {
	MinMarginalRate    decimal.Decimal `yaml:"min_marginal_rate" json:"min_marginal_rate"`
	TargetCeilingRatio decimal.Decimal `yaml:"target_ceiling_ratio" json:"target_ceiling_ratio"`
	MinContribution    decimal.Decimal `yaml:"min_contribution" json:"min_contribution"`
}

// FurnishedRentalRules drives the furnished rental (LMNP) estimate.
type FurnishedRentalRules struct {
	MinMarginalRate  decimal.Decimal `yaml:"min_marginal_rate" json:"min_marginal_rate"`
	MinCapital       decimal.Decimal `yaml:"min_capital" json:"min_capital"`
	GrossYield       decimal.Decimal `yaml:"gross_yield" json:"gross_yield"`
	DepreciationRate decimal.Decimal `yaml:"depreciation_rate" json:"depreciation_rate"`
	SocialLevyRate   decimal.Decimal `yaml:"social_levy_rate" json:"social_levy_rate"`
}

// OverseasRules drives the overseas investment credit (Girardin).
type OverseasRules struct {
	MinNetTax     decimal.Decimal `yaml:"min_net_tax" json:"min_net_tax"`
	ReductionRate decimal.Decimal `yaml:"reduction_rate" json:"reduction_rate"`
	Ceiling       decimal.Decimal `yaml:"ceiling" json:"ceiling"`
	MinRisk       RiskTolerance   `yaml:"min_risk" json:"min_risk"`
}

// InnovationFundRules drives the innovation fund credit (FCPI/FIP).
type InnovationFundRules struct {
	MinNetTax     decimal.Decimal `yaml:"min_net_tax" json:"min_net_tax"`
	ReductionRate decimal.Decimal `yaml:"reduction_rate" json:"reduction_rate"`
	CeilingSingle decimal.Decimal `yaml:"ceiling_single" json:"ceiling_single"`
	CeilingCouple decimal.Decimal `yaml:"ceiling_couple" json:"ceiling_couple"`
	MinRisk       RiskTolerance   `yaml:"min_risk" json:"min_risk"`
}

// SimpleDeductionRules sizes the donation and household service suggestions.
type SimpleDeductionRules struct {
	MinNetTax         decimal.Decimal `yaml:"min_net_tax" json:"min_net_tax"`
	SuggestedDonation decimal.Decimal `yaml:"suggested_donation" json:"suggested_donation"`
	SuggestedServices decimal.Decimal `yaml:"suggested_household_services" json:"suggested_household_services"`
}

// CompanyStructureRules drives the company structure comparison.
type CompanyStructureRules struct {
	MinRevenue      decimal.Decimal       `yaml:"min_revenue" json:"min_revenue"`
	MinMarginalRate decimal.Decimal       `yaml:"min_marginal_rate" json:"min_marginal_rate"`
	SalaryShare     decimal.Decimal       `yaml:"salary_share" json:"salary_share"`
	DividendFlatTax decimal.Decimal       `yaml:"dividend_flat_tax" json:"dividend_flat_tax"`
	CorporateTax    []CorporateTaxBracket `yaml:"corporate_tax" json:"corporate_tax"`
	RunningCost     decimal.Decimal       `yaml:"running_cost" json:"running_cost"`
}

// QuotientFamilialRules sets the household parts: base parts by civil status
// plus an increment per dependent child. The first FirstChildren children
// add FirstChildrenPart each, every further child FurtherChildrenPart.
type QuotientFamilialRules struct {
	SingleParts         decimal.Decimal `yaml:"single_parts" json:"single_parts"`
	CoupleParts         decimal.Decimal `yaml:"couple_parts" json:"couple_parts"`
	FirstChildren       int             `yaml:"first_children" json:"first_children"`
	FirstChildrenPart   decimal.Decimal `yaml:"first_children_part" json:"first_children_part"`
	FurtherChildrenPart decimal.Decimal `yaml:"further_children_part" json:"further_children_part"`
}

// ChildPart returns the parts added by the child of the given rank (1-based).
func (q QuotientFamilialRules) ChildPart(rank int) decimal.Decimal {
	if rank <= q.FirstChildren {
		return q.FirstChildrenPart
	}
	return q.FurtherChildrenPart
}

// MinimumParts returns the parts a household is entitled to at least.
// Situational extras (single parent, disability, veterans) come on top and
// are not modelled, so declared parts may exceed this figure.
func (q QuotientFamilialRules) MinimumParts(f FamilySituation, children int) decimal.Decimal {
	parts := q.SingleParts
	if f.IsCouple() {
		parts = q.CoupleParts
	}
	for rank := 1; rank <= children; rank++ {
		parts = parts.Add(q.ChildPart(rank))
	}
	return parts
}

// OptimizerRules tunes the orchestrator's priority classification.
type OptimizerRules struct {
	HighPriorityMaxRisk       Level `yaml:"high_priority_max_risk" json:"high_priority_max_risk"`
	HighPriorityMaxComplexity Level `yaml:"high_priority_max_complexity" json:"high_priority_max_complexity"`
}

// RuleSet is the immutable table of fiscal constants for one year.
// It is populated from a rule document and never mutated after load.
type RuleSet struct {
	Year                        int                               `yaml:"year" json:"year"`
	Description                 string                            `yaml:"description" json:"description"`
	Brackets                    []Bracket                         `yaml:"brackets" json:"brackets"`
	Abattements                 map[string]decimal.Decimal        `yaml:"abattements" json:"abattements"`
	MicroThresholds             map[ActivityClass]decimal.Decimal `yaml:"micro_thresholds" json:"micro_thresholds"`
	SocialContributionRates     map[ActivityClass]decimal.Decimal `yaml:"social_contribution_rates" json:"social_contribution_rates"`
	SocialContributionTolerance decimal.Decimal                   `yaml:"social_contribution_tolerance" json:"social_contribution_tolerance"`
	ThresholdAlertRatio         decimal.Decimal                   `yaml:"threshold_alert_ratio" json:"threshold_alert_ratio"`
	AllowProfessionalLoss       bool                              `yaml:"allow_professional_loss" json:"allow_professional_loss"`
	QuotientFamilial            QuotientFamilialRules             `yaml:"quotient_familial" json:"quotient_familial"`
	PER                         PERConfig                         `yaml:"per" json:"per"`
	Reductions                  map[ReductionType]ReductionConfig `yaml:"reductions" json:"reductions"`
	Strategies                  StrategyRules                     `yaml:"strategies" json:"strategies"`
	Optimizer                   OptimizerRules                    `yaml:"optimizer" json:"optimizer"`
}

// BracketTable returns a copy of the brackets for display.
func (rs *RuleSet) BracketTable() []Bracket {
	out := make([]Bracket, len(rs.Brackets))
	copy(out, rs.Brackets)
	return out
}

// Abattement returns the flat deduction rate for a regime label.
func (rs *RuleSet) Abattement(label string) (decimal.Decimal, bool) {
	v, ok := rs.Abattements[label]
	return v, ok
}

// MicroThreshold returns the micro revenue ceiling for an activity class.
func (rs *RuleSet) MicroThreshold(a ActivityClass) (decimal.Decimal, bool) {
	v, ok := rs.MicroThresholds[a]
	return v, ok
}

// SocialRate returns the contribution rate for an activity class.
func (rs *RuleSet) SocialRate(a ActivityClass) (decimal.Decimal, bool) {
	v, ok := rs.SocialContributionRates[a]
	return v, ok
}

// Reduction returns the configuration of a reduction type.
func (rs *RuleSet) Reduction(t ReductionType) (ReductionConfig, bool) {
	v, ok := rs.Reductions[t]
	return v, ok
}

// AbattementLabels returns the abattement keys in sorted order.
func (rs *RuleSet) AbattementLabels() []string {
	labels := make([]string, 0, len(rs.Abattements))
	for k := range rs.Abattements {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}
