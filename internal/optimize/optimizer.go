package optimize

import (
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/domain"
)

// Optimizer turns a tax result into ranked recommendations using the rules
// of the result's year.
type Optimizer struct {
	Rules   calculation.RuleSource
	Logger  calculation.Logger
	Workers int
}

// NewOptimizer creates an optimizer reading rules from src
func NewOptimizer(src calculation.RuleSource) *Optimizer {
	return &Optimizer{
		Rules:  src,
		Logger: calculation.NopLogger{},
	}
}

// Optimize runs every strategy against tax and profile.
func (op *Optimizer) Optimize(tax *domain.TaxCalculationResult, profile *domain.FiscalProfile, octx domain.OptimizationContext) (*domain.OptimizationResult, error) {
	if tax == nil {
		return nil, &domain.ValidationError{Field: "tax_result", Constraint: "is required", Value: nil}
	}
	if profile == nil {
		return nil, &domain.ValidationError{Field: "profile", Constraint: "is required", Value: nil}
	}
	if err := validateInput(tax, profile, octx); err != nil {
		return nil, err
	}
	if op.Rules == nil {
		return nil, fmt.Errorf("optimizer has no rule source")
	}
	rs, err := op.Rules.Load(tax.Year)
	if err != nil {
		return nil, err
	}

	orch, err := NewDefaultOrchestrator(rs)
	if err != nil {
		return nil, err
	}
	orch.SetLogger(op.Logger)
	orch.SetWorkers(op.Workers)
	return orch.Run(tax, profile, octx)
}
