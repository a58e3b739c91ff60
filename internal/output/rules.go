package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/fiscopt/internal/domain"
)

// FormatRuleSet renders the constants of a rule set so a reader can see how
// a result was computed.
func FormatRuleSet(rs *domain.RuleSet, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "console", "":
	default:
		return nil, fmt.Errorf("unsupported rules format %q", format)
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("RULES %d", rs.Year))}
	if rs.Description != "" {
		lines = append(lines, mutedStyle.Render(rs.Description))
	}

	lines = append(lines, "", sectionStyle.Render("Brackets (per part)"))
	for _, b := range rs.BracketTable() {
		lines = append(lines, row(bracketRange(b.Lower, b.Upper), FormatPercentage(b.Rate)))
	}

	lines = append(lines, "", sectionStyle.Render("Micro regime"))
	for _, label := range rs.AbattementLabels() {
		rate, _ := rs.Abattement(label)
		lines = append(lines, row("Abattement "+label, FormatPercentage(rate)))
	}
	for _, class := range domain.ActivityClasses {
		if threshold, ok := rs.MicroThreshold(class); ok {
			lines = append(lines, row("Threshold "+string(class), FormatCurrency(threshold)))
		}
	}

	lines = append(lines, "", sectionStyle.Render("Social contributions"))
	for _, class := range domain.ActivityClasses {
		if rate, ok := rs.SocialRate(class); ok {
			lines = append(lines, row(string(class), FormatPercentage(rate)))
		}
	}

	qf := rs.QuotientFamilial
	lines = append(lines, "", sectionStyle.Render("Quotient familial"),
		row("Single", qf.SingleParts.String()+" part"),
		row("Couple", qf.CoupleParts.String()+" parts"),
		row(fmt.Sprintf("Children 1-%d", qf.FirstChildren), "+"+qf.FirstChildrenPart.String()+" each"),
		row("Further children", "+"+qf.FurtherChildrenPart.String()+" each"))

	lines = append(lines, "", sectionStyle.Render("PER"),
		row("Rate of revenue", FormatPercentage(rs.PER.PercentageRate)),
		row("Floor", FormatCurrency(rs.PER.Floor)))
	for _, status := range sortedKeys(rs.PER.CeilingByStatus) {
		lines = append(lines, row("Ceiling "+status, FormatCurrency(rs.PER.CeilingByStatus[status])))
	}

	lines = append(lines, "", sectionStyle.Render("Reductions"))
	for _, t := range domain.ReductionTypes {
		cfg, ok := rs.Reduction(t)
		if !ok {
			continue
		}
		lines = append(lines, row(string(t), FormatPercentage(cfg.Rate)+" "+describeCeiling(cfg.Ceiling)))
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

func describeCeiling(c domain.CeilingRule) string {
	switch c.Kind {
	case domain.CeilingPercentOfIncome:
		return "up to " + FormatPercentage(c.Amount) + " of income"
	case domain.CeilingPerUnit:
		s := fmt.Sprintf("up to %s + %s per %s", c.Amount.StringFixed(0), c.PerUnit.StringFixed(0), strings.TrimSuffix(string(c.Unit), "ren"))
		if c.Max != nil {
			s += ", max " + c.Max.StringFixed(0)
		}
		return s
	default:
		return "up to " + c.Amount.StringFixed(0)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
