package output

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"
)

// CSVFormatter formats reports as section,item,amount,detail rows
type CSVFormatter struct{}

func (cf *CSVFormatter) Name() string { return "csv" }

// Format generates CSV output for a report
func (cf *CSVFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	rows := [][]string{{"section", "item", "amount", "detail"}}
	amount := func(section, item string, d decimal.Decimal, detail string) {
		rows = append(rows, []string{section, item, d.StringFixed(2), detail})
	}

	t := r.Tax
	amount("tax", "taxable_professional_income", t.TaxableProfessionalIncome, "")
	amount("tax", "total_taxable_income", t.TotalTaxableIncome, "")
	amount("tax", "per_deductible", t.PER.Deductible, "ceiling "+t.PER.Ceiling.StringFixed(2))
	amount("tax", "taxable_income_after_per", t.TaxableIncomeAfterPER, "")
	amount("tax", "part_income", t.PartIncome, "parts "+t.Parts.String())
	amount("tax", "gross_tax", t.GrossTax, "")
	amount("tax", "total_reductions", t.TotalReductions, "")
	amount("tax", "net_tax", t.NetTax, "")
	rows = append(rows,
		[]string{"tax", "marginal_rate", t.MarginalRate.StringFixed(4), ""},
		[]string{"tax", "effective_rate", t.EffectiveRate.StringFixed(4), ""},
	)

	for _, l := range t.Brackets {
		amount("bracket", bracketRange(l.Lower, l.Upper), l.Tax, "rate "+l.Rate.String())
	}
	for _, red := range t.Reductions {
		amount("reduction", string(red.Type), red.Reduction, fmt.Sprintf("eligible %s excess %s", red.Eligible.StringFixed(2), red.Excess.StringFixed(2)))
	}

	social := ""
	if t.Social.Delta != nil {
		social = "delta " + t.Social.Delta.StringFixed(2)
	}
	amount("social", "expected", t.Social.Expected, social)

	c := t.Comparison
	amount("comparison", "micro", c.Micro.Total, fmt.Sprintf("tax %s available %t", c.Micro.Tax.StringFixed(2), c.Micro.Available))
	amount("comparison", "reel", c.Reel.Total, fmt.Sprintf("tax %s available %t", c.Reel.Tax.StringFixed(2), c.Reel.Available))
	amount("comparison", "potential_saving", c.PotentialSaving, "recommended "+string(c.Recommended))

	for _, w := range t.Warnings {
		rows = append(rows, []string{"warning", "", "", w})
	}

	if o := r.Optimization; o != nil {
		for _, rec := range o.Recommendations {
			amount("recommendation", rec.Title, rec.EstimatedImpact, fmt.Sprintf("strategy %s risk %s complexity %s confidence %s investment %s",
				rec.Strategy, rec.Risk, rec.Complexity, rec.Confidence.String(), rec.RequiredInvestment.StringFixed(2)))
		}
		amount("optimization", "total_savings", o.TotalSavings, fmt.Sprintf("high priority %d", o.HighPriorityCount))
		for _, f := range o.Failures {
			rows = append(rows, []string{"failure", f.Strategy, "", f.Error})
		}
	}

	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
