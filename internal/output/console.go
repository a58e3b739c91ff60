package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/fiscopt/internal/domain"
)

// ConsoleFormatter renders reports for a terminal.
type ConsoleFormatter struct{}

func (cf *ConsoleFormatter) Name() string { return "console" }

func (cf *ConsoleFormatter) Format(r *Report) ([]byte, error) {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("INCOME TAX %d (%s)", r.Tax.Year, domain.RegimeLabel(r.Tax.Regime, r.Tax.ActivityClass))),
		cf.taxSection(r.Tax),
		cf.bracketSection(r.Tax),
		cf.reductionSection(r.Tax),
		cf.socialSection(r.Tax),
		cf.comparisonSection(r.Tax),
	}
	if len(r.Tax.Warnings) > 0 {
		sections = append(sections, warningList("Warnings", r.Tax.Warnings))
	}
	if r.Optimization != nil {
		sections = append(sections, cf.optimizationSection(r.Optimization))
	}
	return []byte(lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"), nil
}

func (cf *ConsoleFormatter) taxSection(t *domain.TaxCalculationResult) string {
	lines := []string{
		sectionStyle.Render("Income"),
		row("Taxable professional income", FormatCurrency(t.TaxableProfessionalIncome)),
		row("Total taxable income", FormatCurrency(t.TotalTaxableIncome)),
		row("PER deduction", FormatCurrency(t.PER.Deductible)),
		row("Taxable income after PER", FormatCurrency(t.TaxableIncomeAfterPER)),
		row("Income per part ("+t.Parts.String()+" parts)", FormatCurrency(t.PartIncome)),
		row("Gross tax", FormatCurrency(t.GrossTax)),
		row("Reductions", FormatCurrency(t.TotalReductions)),
		row("Net tax", FormatCurrency(t.NetTax)),
		row("Marginal rate (TMI)", FormatPercentage(t.MarginalRate)),
		row("Effective rate", FormatPercentage(t.EffectiveRate)),
	}
	return "\n" + strings.Join(lines, "\n")
}

func (cf *ConsoleFormatter) bracketSection(t *domain.TaxCalculationResult) string {
	lines := []string{"", sectionStyle.Render("Brackets")}
	for _, l := range t.Brackets {
		line := row(fmt.Sprintf("%-16s %6s", bracketRange(l.Lower, l.Upper), FormatPercentage(l.Rate)), FormatCurrency(l.Tax))
		if l.Base.IsZero() {
			line = mutedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (cf *ConsoleFormatter) reductionSection(t *domain.TaxCalculationResult) string {
	lines := []string{"", sectionStyle.Render("Reductions")}
	for _, red := range t.Reductions {
		if red.Declared.IsZero() {
			continue
		}
		lines = append(lines, row(fmt.Sprintf("%s (eligible %s)", red.Type, red.Eligible.StringFixed(2)), FormatCurrency(red.Reduction)))
	}
	if len(lines) == 2 {
		lines = append(lines, mutedStyle.Render("none declared"))
	}
	return strings.Join(lines, "\n")
}

func (cf *ConsoleFormatter) socialSection(t *domain.TaxCalculationResult) string {
	lines := []string{
		"",
		sectionStyle.Render("Social contributions"),
		row("Expected ("+FormatPercentage(t.Social.Rate)+")", FormatCurrency(t.Social.Expected)),
	}
	if t.Social.Paid != nil {
		lines = append(lines,
			row("Paid", FormatCurrency(*t.Social.Paid)),
			row("Delta", FormatCurrency(*t.Social.Delta)),
		)
	}
	return strings.Join(lines, "\n")
}

func (cf *ConsoleFormatter) comparisonSection(t *domain.TaxCalculationResult) string {
	c := t.Comparison
	burden := func(b domain.RegimeBurden) string {
		s := FormatCurrency(b.Total)
		if !b.Available {
			s += " (n/a)"
		}
		return s
	}
	lines := []string{
		"",
		sectionStyle.Render("Micro vs réel"),
		row("Micro: tax + contributions", burden(c.Micro)),
		row("Réel: tax + contributions", burden(c.Reel)),
		row("Recommended", string(c.Recommended)),
	}
	if c.PotentialSaving.IsPositive() {
		lines = append(lines, row("Potential saving", savingStyle.Render(FormatCurrency(c.PotentialSaving))))
	}
	lines = append(lines, mutedStyle.Render(c.Justification))
	if t.Threshold.Approaching || t.Threshold.Exceeded {
		lines = append(lines, row("Micro threshold", FormatCurrency(t.Threshold.Threshold)),
			row("Headroom", FormatCurrency(t.Threshold.Headroom)))
	}
	return strings.Join(lines, "\n")
}

func (cf *ConsoleFormatter) optimizationSection(o *domain.OptimizationResult) string {
	parts := []string{"", titleStyle.Render("OPTIMIZATION"), o.Summary}
	for i, rec := range o.Recommendations {
		body := []string{
			fmt.Sprintf("%d. %s", i+1, rec.Title),
			row("Estimated saving", savingStyle.Render(FormatCurrency(rec.EstimatedImpact))),
			row("Risk / complexity", fmt.Sprintf("%s / %s", rec.Risk, rec.Complexity)),
		}
		if rec.RequiredInvestment.IsPositive() {
			body = append(body, row("Required investment", FormatCurrency(rec.RequiredInvestment)))
		}
		if rec.Deadline != "" {
			body = append(body, row("Deadline", rec.Deadline))
		}
		body = append(body, mutedStyle.Render(rec.Description))
		for _, step := range rec.ActionSteps {
			body = append(body, "  - "+step)
		}
		parts = append(parts, cardStyle.Render(strings.Join(body, "\n")))
	}
	if len(o.Warnings) > 0 {
		parts = append(parts, warningList("Data completeness", o.Warnings))
	}
	if len(o.Failures) > 0 {
		lines := []string{"", sectionStyle.Render("Failed strategies")}
		for _, f := range o.Failures {
			lines = append(lines, failureStyle.Render(f.Strategy+": "+f.Error))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n")
}

func warningList(title string, warnings []string) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, w := range warnings {
		lines = append(lines, warningStyle.Render("! "+w))
	}
	return strings.Join(lines, "\n")
}
