package domain

import (
	"github.com/shopspring/decimal"
)

// BracketLine is the tax raised by one bracket.
type BracketLine struct {
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
	Rate  decimal.Decimal  `json:"rate"`
	// Base is the slice of part income taxed in this bracket.
	Base decimal.Decimal `json:"base"`
	// PartTax is Base * Rate; Tax multiplies it by the number of parts.
	PartTax decimal.Decimal `json:"partTax"`
	Tax     decimal.Decimal `json:"tax"`
}

// PERApplication is the outcome of applying retirement contributions.
type PERApplication struct {
	Contribution decimal.Decimal `json:"contribution"`
	Ceiling      decimal.Decimal `json:"ceiling"`
	Deductible   decimal.Decimal `json:"deductible"`
	Excess       decimal.Decimal `json:"excess"`
}

// AppliedReduction is one line of the reduction breakdown.
type AppliedReduction struct {
	Type      ReductionType   `json:"type"`
	Declared  decimal.Decimal `json:"declared"`
	Ceiling   decimal.Decimal `json:"ceiling"`
	Eligible  decimal.Decimal `json:"eligible"`
	Rate      decimal.Decimal `json:"rate"`
	Reduction decimal.Decimal `json:"reduction"`
	Excess    decimal.Decimal `json:"excess"`
}

// SocialContributions compares expected and paid contributions.
// Paid and Delta are nil when the taxpayer did not declare a paid amount.
type SocialContributions struct {
	Rate     decimal.Decimal  `json:"rate"`
	Expected decimal.Decimal  `json:"expected"`
	Paid     *decimal.Decimal `json:"paid,omitempty"`
	Delta    *decimal.Decimal `json:"delta,omitempty"`
}

// ThresholdProximity reports how close revenue is to the micro ceiling.
type ThresholdProximity struct {
	Threshold   decimal.Decimal `json:"threshold"`
	Ratio       decimal.Decimal `json:"ratio"`
	Headroom    decimal.Decimal `json:"headroom"`
	Approaching bool            `json:"approaching"`
	Exceeded    bool            `json:"exceeded"`
}

// RegimeBurden is the total tax plus contributions under one regime.
type RegimeBurden struct {
	Regime        Regime          `json:"regime"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	Tax           decimal.Decimal `json:"tax"`
	Contributions decimal.Decimal `json:"contributions"`
	Total         decimal.Decimal `json:"total"`
	Available     bool            `json:"available"`
}

// ComparisonResult compares the micro and réel regimes on the same revenue.
type ComparisonResult struct {
	Current           Regime          `json:"current"`
	Micro             RegimeBurden    `json:"micro"`
	Reel              RegimeBurden    `json:"reel"`
	TaxDelta          decimal.Decimal `json:"taxDelta"`
	ContributionDelta decimal.Decimal `json:"contributionDelta"`
	PotentialSaving   decimal.Decimal `json:"potentialSaving"`
	PercentageSaving  decimal.Decimal `json:"percentageSaving"`
	Recommended       Regime          `json:"recommended"`
	Justification     string          `json:"justification"`
}

// Burden returns the burden computed for a regime.
func (c ComparisonResult) Burden(r Regime) RegimeBurden {
	if r == RegimeMicro {
		return c.Micro
	}
	return c.Reel
}

// TaxCalculationResult is the full output of one calculation.
// It is built once and never mutated afterward.
type TaxCalculationResult struct {
	Year          int             `json:"year"`
	Regime        Regime          `json:"regime"`
	ActivityClass ActivityClass   `json:"activityClass"`
	Parts         decimal.Decimal `json:"parts"`

	TaxableProfessionalIncome decimal.Decimal `json:"taxableProfessionalIncome"`
	TotalTaxableIncome        decimal.Decimal `json:"totalTaxableIncome"`
	PER                       PERApplication  `json:"per"`
	TaxableIncomeAfterPER     decimal.Decimal `json:"taxableIncomeAfterPER"`
	PartIncome                decimal.Decimal `json:"partIncome"`

	GrossTax      decimal.Decimal `json:"grossTax"`
	NetTax        decimal.Decimal `json:"netTax"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`

	Brackets   []BracketLine      `json:"brackets"`
	Reductions []AppliedReduction `json:"reductions"`

	TotalReductions decimal.Decimal     `json:"totalReductions"`
	Social          SocialContributions `json:"social"`
	Comparison      ComparisonResult    `json:"comparison"`
	Threshold       ThresholdProximity  `json:"threshold"`
	Warnings        []string            `json:"warnings"`
}

// Category classifies a recommendation.
type Category string

const (
	CategoryRegime     Category = "regime"
	CategoryDeduction  Category = "deduction"
	CategoryInvestment Category = "investment"
	CategoryStructure  Category = "structure"
)

// Recommendation is one quantified savings opportunity emitted by a strategy.
type Recommendation struct {
	ID                 string          `json:"id"`
	Strategy           string          `json:"strategy"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Category           Category        `json:"category"`
	EstimatedImpact    decimal.Decimal `json:"estimatedImpact"`
	Risk               Level           `json:"risk"`
	Complexity         Level           `json:"complexity"`
	Confidence         decimal.Decimal `json:"confidence"`
	RequiredInvestment decimal.Decimal `json:"requiredInvestment"`
	ActionSteps        []string        `json:"actionSteps"`
	Sources            []string        `json:"sources"`
	Deadline           string          `json:"deadline,omitempty"`
}

// StrategyFailureRecord is the serializable trace of a failed strategy.
type StrategyFailureRecord struct {
	Strategy string `json:"strategy"`
	Error    string `json:"error"`
}

// OptimizationResult is the ranked outcome of one orchestrator run.
type OptimizationResult struct {
	RunID             string                  `json:"runId"`
	Recommendations   []Recommendation        `json:"recommendations"`
	Summary           string                  `json:"summary"`
	TotalSavings      decimal.Decimal         `json:"totalSavings"`
	HighPriorityCount int                     `json:"highPriorityCount"`
	Warnings          []string                `json:"warnings"`
	Failures          []StrategyFailureRecord `json:"failures"`
	Partial           bool                    `json:"partial"`
}
