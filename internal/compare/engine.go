package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/rgehrsitz/fiscopt/internal/transform"
)

// BaseScenarioName labels the unmodified profile in a comparison.
const BaseScenarioName = "base"

// CompareEngine orchestrates what-if comparisons of a fiscal profile.
// Registries are built per call from the profile year's rules, so one
// engine may serve concurrent Compare calls.
type CompareEngine struct {
	Rules             calculation.RuleSource
	CalcEngine        *calculation.CalculationEngine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(src calculation.RuleSource) *CompareEngine {
	return &CompareEngine{
		Rules:             src,
		CalcEngine:        calculation.NewCalculationEngine(src),
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates  []string // Built-in template names, one variant each
	Transforms []string // Transform specs, one variant each
}

// Compare calculates the base profile and one variant per template and
// transform spec, in the order given.
func (ce *CompareEngine) Compare(ctx context.Context, profile *domain.FiscalProfile, options CompareOptions) (*ComparisonSet, error) {
	if profile == nil {
		return nil, &domain.ValidationError{Field: "profile", Constraint: "is required", Value: nil}
	}

	rs, err := ce.Rules.Load(profile.Year)
	if err != nil {
		return nil, err
	}
	templates := transform.CreateBuiltInTemplates(rs)
	transforms := transform.NewTransformRegistry(rs)

	baseTax, err := ce.CalcEngine.Calculate(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base profile: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(BaseScenarioName, baseTax)
	baseResult.Description = "Profile as declared"

	alternatives := []ComparisonResult{}

	for _, templateName := range options.Templates {
		template, ok := templates.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}
		alt, err := ce.variant(ctx, profile, template.Name, template.Description, template.Transforms, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	for _, spec := range options.Transforms {
		tr, err := transforms.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}
		alt, err := ce.variant(ctx, profile, spec, tr.Description(), []transform.ProfileTransform{tr}, baseResult)
		if err != nil {
			return nil, err
		}
		alternatives = append(alternatives, alt)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   BaseScenarioName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) variant(ctx context.Context, base *domain.FiscalProfile, name, description string, transforms []transform.ProfileTransform, baseResult ComparisonResult) (ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return ComparisonResult{}, err
	}

	modified, err := transform.ApplyTransforms(base, transforms)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to apply %s: %w", name, err)
	}

	tax, err := ce.CalcEngine.Calculate(modified)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to calculate %s: %w", name, err)
	}

	result := ce.MetricsCalculator.CalculateMetrics(name, tax)
	result.Description = description
	return ce.MetricsCalculator.CalculateComparison(result, baseResult), nil
}
