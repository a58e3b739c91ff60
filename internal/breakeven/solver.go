package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver finds break-even amounts by re-running the calculator on variants
// of a profile.
type Solver struct {
	Rules   calculation.RuleSource
	Options SolverOptions
	logger  calculation.Logger
}

// NewSolver creates a new break-even solver
func NewSolver(src calculation.RuleSource, options SolverOptions) *Solver {
	return &Solver{
		Rules:   src,
		Options: options,
		logger:  calculation.NopLogger{},
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(src calculation.RuleSource) *Solver {
	return NewSolver(src, DefaultSolverOptions())
}

// SetLogger sets the solver logger; nil restores the no-op logger.
func (s *Solver) SetLogger(l calculation.Logger) {
	if l == nil {
		s.logger = calculation.NopLogger{}
		return
	}
	s.logger = l
}

// Solve runs one break-even search.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.Profile == nil {
		return nil, &domain.ValidationError{Field: "profile", Constraint: "is required", Value: nil}
	}
	if err := config.ValidateProfile(req.Profile); err != nil {
		return nil, err
	}
	if s.Rules == nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "solver has no rule source"}
	}
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Step.IsZero() {
		req.Step = s.Options.Step
	}
	if !req.Step.IsPositive() {
		return nil, &BreakEvenError{Operation: "solve", Message: "step must be positive"}
	}

	rs, err := s.Rules.Load(req.Profile.Year)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateHousehold(rs, req.Profile); err != nil {
		return nil, err
	}
	base, err := calculation.CalculateWithRules(rs, req.Profile)
	if err != nil {
		return nil, err
	}

	var res *Result
	switch req.Target {
	case TargetReelExpenses:
		res, err = s.solveReelExpenses(ctx, req, rs, base)
	case TargetPERBracket:
		res, err = s.solvePERBracket(ctx, req, rs, base)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported break-even target: %s", req.Target),
		}
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("break-even %s: %s", res.Target, res.ConvergenceInfo)
	return res, nil
}

// solveReelExpenses finds the smallest deductible expenses for which the
// réel burden does not exceed the micro burden. Contributions are the same
// under both regimes, so only the income tax moves.
func (s *Solver) solveReelExpenses(ctx context.Context, req Request, rs *domain.RuleSet, base *domain.TaxCalculationResult) (*Result, error) {
	p := *req.Profile
	res := &Result{
		Target:        TargetReelExpenses,
		Current:       p.DeductibleExpenses,
		NetTaxCurrent: base.Comparison.Reel.Tax,
	}
	if !base.Comparison.Micro.Available {
		res.ConvergenceInfo = "micro regime unavailable above the threshold"
		return res, nil
	}
	micro := base.Comparison.Micro.Total

	reelAt := func(expenses decimal.Decimal) (domain.RegimeBurden, error) {
		variant := p
		variant.DeductibleExpenses = expenses
		return calculation.RegimeBurden(rs, &variant, domain.RegimeReel)
	}

	value, found, iterations, err := s.search(ctx, req, decimal.Zero, p.Revenue, func(expenses decimal.Decimal) (bool, error) {
		reel, err := reelAt(expenses)
		if err != nil {
			return false, err
		}
		return reel.Total.LessThanOrEqual(micro), nil
	})
	if err != nil {
		return nil, &BreakEvenError{Operation: "reel_expenses", Message: "search failed", Cause: err}
	}
	res.Iterations = iterations
	if !found {
		res.ConvergenceInfo = "réel stays more expensive than micro up to expenses equal to revenue"
		return res, nil
	}

	reel, err := reelAt(value)
	if err != nil {
		return nil, &BreakEvenError{Operation: "reel_expenses", Message: "failed to price the break-even point", Cause: err}
	}
	s.found(res, req, value, reel.Tax)
	return res, nil
}

// solvePERBracket finds the smallest retirement contribution that moves part
// income out of its current bracket, within the PER ceiling.
func (s *Solver) solvePERBracket(ctx context.Context, req Request, rs *domain.RuleSet, base *domain.TaxCalculationResult) (*Result, error) {
	p := *req.Profile
	res := &Result{
		Target:        TargetPERBracket,
		Current:       p.Deductions.RetirementContributions,
		NetTaxCurrent: base.NetTax,
	}
	index := calculation.BracketIndex(base.PartIncome, rs.Brackets)
	if index == 0 {
		res.ConvergenceInfo = "already in the lowest bracket"
		return res, nil
	}

	withContribution := func(c decimal.Decimal) (*domain.TaxCalculationResult, error) {
		variant := p
		variant.Deductions.RetirementContributions = c
		return calculation.CalculateWithRules(rs, &variant)
	}

	value, found, iterations, err := s.search(ctx, req, res.Current, base.PER.Ceiling, func(c decimal.Decimal) (bool, error) {
		r, err := withContribution(c)
		if err != nil {
			return false, err
		}
		return calculation.BracketIndex(r.PartIncome, rs.Brackets) < index, nil
	})
	if err != nil {
		return nil, &BreakEvenError{Operation: "per_bracket", Message: "search failed", Cause: err}
	}
	res.Iterations = iterations
	if !found {
		res.ConvergenceInfo = fmt.Sprintf("the PER ceiling of %s EUR is reached before leaving the %s bracket",
			base.PER.Ceiling.StringFixed(2), base.MarginalRate.Mul(decimal.NewFromInt(100)).StringFixed(0)+"%")
		return res, nil
	}

	r, err := withContribution(value)
	if err != nil {
		return nil, &BreakEvenError{Operation: "per_bracket", Message: "failed to price the break-even point", Cause: err}
	}
	s.found(res, req, value, r.NetTax)
	return res, nil
}

func (s *Solver) found(res *Result, req Request, value, netTax decimal.Decimal) {
	res.Success = true
	res.BreakEven = &value
	res.Gap = value.Sub(res.Current)
	res.NetTaxBreakEven = netTax
	res.ConvergenceInfo = fmt.Sprintf("converged to %s EUR after %d iterations", req.Step.String(), res.Iterations)
}

// search returns the smallest amount of the grid lo, lo+step, ..., hi for
// which reached holds. reached must be monotone over [lo, hi]: false below
// the answer, true from it on.
func (s *Solver) search(ctx context.Context, req Request, lo, hi decimal.Decimal, reached func(decimal.Decimal) (bool, error)) (decimal.Decimal, bool, int, error) {
	if hi.LessThan(lo) {
		return decimal.Zero, false, 0, nil
	}
	at := func(k int64) decimal.Decimal {
		return decimal.Min(lo.Add(req.Step.Mul(decimal.NewFromInt(k))), hi)
	}

	iterations := 1
	ok, err := reached(hi)
	if err != nil || !ok {
		return decimal.Zero, false, iterations, err
	}
	iterations++
	ok, err = reached(lo)
	if err != nil {
		return decimal.Zero, false, iterations, err
	}
	if ok {
		return lo, true, iterations, nil
	}

	// reached(at(low)) is false and reached(at(high)) is true throughout.
	low, high := int64(0), hi.Sub(lo).Div(req.Step).Ceil().IntPart()
	for high-low > 1 {
		if iterations >= req.MaxIterations {
			return decimal.Zero, false, iterations, fmt.Errorf("did not converge after %d iterations", req.MaxIterations)
		}
		select {
		case <-ctx.Done():
			return decimal.Zero, false, iterations, ctx.Err()
		default:
		}

		iterations++
		mid := low + (high-low)/2
		ok, err := reached(at(mid))
		if err != nil {
			return decimal.Zero, false, iterations, err
		}
		if ok {
			high = mid
		} else {
			low = mid
		}
	}
	return at(high), true, iterations, nil
}
