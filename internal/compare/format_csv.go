package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Variant",
		"Type",
		"Year",
		"Regime",
		"Taxable Income",
		"Income Tax",
		"Contributions",
		"Total Burden",
		"Marginal Rate",
		"Effective Rate",
		"Tax Diff from Base",
		"Burden Diff from Base",
		"Burden % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cf *CSVFormatter) formatRow(result *ComparisonResult, variantType string) []string {
	return []string{
		result.ScenarioName,
		variantType,
		strconv.Itoa(result.Year),
		string(result.Regime),
		result.TaxableIncome.StringFixed(2),
		result.NetTax.StringFixed(2),
		result.Contributions.StringFixed(2),
		result.TotalBurden.StringFixed(2),
		result.MarginalRate.String(),
		result.EffectiveRate.String(),
		result.TaxDiffFromBase.StringFixed(2),
		result.BurdenDiffFromBase.StringFixed(2),
		result.BurdenPctFromBase.StringFixed(2),
	}
}
