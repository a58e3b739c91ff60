package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Category    string
	Transforms  []ProfileTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names in sorted order
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryRegime     = "Regime"
	categoryDeductions = "Deductions"
	categoryHousehold  = "Household"
	categoryOutlook    = "Outlook"
)

var categoryOrder = []string{categoryRegime, categoryDeductions, categoryHousehold, categoryOutlook}

// CreateBuiltInTemplates creates a template registry sized by the rules of
// the profile's year.
func CreateBuiltInTemplates(rs *domain.RuleSet) *TemplateRegistry {
	registry := NewTemplateRegistry()
	sd := rs.Strategies.SimpleDeductions

	registry.Register(Template{
		Name:        "switch_regime",
		Description: "Move to the other regime (micro or réel)",
		Category:    categoryRegime,
		Transforms:  []ProfileTransform{&SwitchRegime{}},
	})

	registry.Register(Template{
		Name:        "max_per",
		Description: "Contribute up to the PER deduction ceiling",
		Category:    categoryDeductions,
		Transforms:  []ProfileTransform{&MaxPERContribution{Rules: rs}},
	})

	registry.Register(Template{
		Name:        "donation",
		Description: fmt.Sprintf("Donate %s EUR to eligible organisations", sd.SuggestedDonation.StringFixed(0)),
		Category:    categoryDeductions,
		Transforms:  []ProfileTransform{&AddDeduction{Type: domain.ReductionDonations, Amount: sd.SuggestedDonation}},
	})

	registry.Register(Template{
		Name:        "household_services",
		Description: fmt.Sprintf("Spend %s EUR on declared household services", sd.SuggestedServices.StringFixed(0)),
		Category:    categoryDeductions,
		Transforms:  []ProfileTransform{&AddDeduction{Type: domain.ReductionHouseholdServices, Amount: sd.SuggestedServices}},
	})

	registry.Register(Template{
		Name:        "all_deductions",
		Description: "Max PER plus the suggested donation and household services",
		Category:    categoryDeductions,
		Transforms: []ProfileTransform{
			&MaxPERContribution{Rules: rs},
			&AddDeduction{Type: domain.ReductionDonations, Amount: sd.SuggestedDonation},
			&AddDeduction{Type: domain.ReductionHouseholdServices, Amount: sd.SuggestedServices},
		},
	})

	registry.Register(Template{
		Name:        "add_child",
		Description: "One more dependent child under six",
		Category:    categoryHousehold,
		Transforms:  []ProfileTransform{&AddChild{Rules: rs, Young: true}},
	})

	registry.Register(Template{
		Name:        "revenue_up_10pct",
		Description: "Revenue 10% higher",
		Category:    categoryOutlook,
		Transforms:  []ProfileTransform{&ScaleRevenue{Factor: decimal.RequireFromString("1.10")}},
	})

	registry.Register(Template{
		Name:        "revenue_down_10pct",
		Description: "Revenue 10% lower",
		Category:    categoryOutlook,
		Transforms:  []ProfileTransform{&ScaleRevenue{Factor: decimal.RequireFromString("0.90")}},
	})

	registry.Register(Template{
		Name:        "next_year",
		Description: "Same profile under next year's rules",
		Category:    categoryOutlook,
		Transforms:  []ProfileTransform{&ShiftYear{Years: 1}},
	})

	return registry
}

// ApplyTemplate applies a template to a base profile
func ApplyTemplate(base *domain.FiscalProfile, template Template) (*domain.FiscalProfile, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	byCategory := make(map[string][]Template)
	for _, name := range registry.List() {
		t := registry.templates[name]
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")
	for _, category := range categoryOrder {
		templates := byCategory[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-22s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  fiscopt compare profile.yaml --with switch_regime,max_per\n")
	sb.WriteString("  fiscopt compare profile.yaml --transform set_expenses:amount=12000\n")

	return sb.String()
}
