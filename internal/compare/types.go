package compare

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult holds the key figures of one profile variant
type ComparisonResult struct {
	ScenarioName string        `json:"scenarioName"`
	Description  string        `json:"description"`
	Year         int           `json:"year"`
	Regime       domain.Regime `json:"regime"`

	// Key Metrics
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	NetTax        decimal.Decimal `json:"netTax"`
	Contributions decimal.Decimal `json:"contributions"`
	TotalBurden   decimal.Decimal `json:"totalBurden"`
	MarginalRate  decimal.Decimal `json:"marginalRate"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"`

	// Comparison to Base
	TaxDiffFromBase    decimal.Decimal `json:"taxDiffFromBase"`
	BurdenDiffFromBase decimal.Decimal `json:"burdenDiffFromBase"`
	BurdenPctFromBase  decimal.Decimal `json:"burdenPctFromBase"`
}

// ComparisonSet represents a collection of profile comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ProfilePath        string             `json:"profilePath,omitempty"`
}

// MetricsCalculator extracts key metrics from calculation results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the figures compared across variants
func (mc *MetricsCalculator) CalculateMetrics(name string, r *domain.TaxCalculationResult) ComparisonResult {
	return ComparisonResult{
		ScenarioName:  name,
		Year:          r.Year,
		Regime:        r.Regime,
		TaxableIncome: r.TaxableIncomeAfterPER,
		NetTax:        r.NetTax,
		Contributions: r.Social.Expected,
		TotalBurden:   r.NetTax.Add(r.Social.Expected),
		MarginalRate:  r.MarginalRate,
		EffectiveRate: r.EffectiveRate,
	}
}

// CalculateComparison computes the deltas between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.NetTax.Sub(base.NetTax)
	scenario.BurdenDiffFromBase = scenario.TotalBurden.Sub(base.TotalBurden)

	if !base.TotalBurden.IsZero() {
		scenario.BurdenPctFromBase = scenario.BurdenDiffFromBase.
			Div(base.TotalBurden).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return scenario
}

// GenerateRecommendations points at the variants that beat the base profile
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	lowestBurden := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalBurden.LessThan(lowestBurden.TotalBurden) {
			lowestBurden = alt
		}
	}
	if lowestBurden != compSet.BaseResult {
		saving := compSet.BaseResult.TotalBurden.Sub(lowestBurden.TotalBurden)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest burden: %s saves %s EUR of tax and contributions compared with the base profile",
				lowestBurden.ScenarioName, saving.StringFixed(2)))
	}

	lowestTax := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.NetTax.LessThan(lowestTax.NetTax) {
			lowestTax = alt
		}
	}
	if lowestTax != compSet.BaseResult {
		saving := compSet.BaseResult.NetTax.Sub(lowestTax.NetTax)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest income tax: %s cuts income tax by %s EUR", lowestTax.ScenarioName, saving.StringFixed(2)))
	}

	return recommendations
}
