package optimize

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rgehrsitz/fiscopt/internal/calculation"
	"github.com/rgehrsitz/fiscopt/internal/config"
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/rgehrsitz/fiscopt/internal/strategy"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle of an orchestrator run.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when Run is called while a run is in progress.
var ErrBusy = errors.New("orchestrator is already running")

// Orchestrator runs a fixed set of strategies against one tax result and
// ranks what they recommend.
type Orchestrator struct {
	rules      *domain.RuleSet
	strategies []strategy.Strategy
	workers    int
	logger     calculation.Logger
	state      atomic.Int32
}

// NewOrchestrator binds strategies to the rule set used to classify their
// recommendations.
func NewOrchestrator(rs *domain.RuleSet, strategies []strategy.Strategy) (*Orchestrator, error) {
	if rs == nil {
		return nil, strategy.ErrNoRules
	}
	return &Orchestrator{
		rules:      rs,
		strategies: strategies,
		logger:     calculation.NopLogger{},
	}, nil
}

// NewDefaultOrchestrator creates an orchestrator running every strategy.
func NewDefaultOrchestrator(rs *domain.RuleSet) (*Orchestrator, error) {
	strategies, err := strategy.All(rs)
	if err != nil {
		return nil, err
	}
	return NewOrchestrator(rs, strategies)
}

// SetLogger installs a logger; nil restores the no-op logger
func (o *Orchestrator) SetLogger(l calculation.Logger) {
	if l == nil {
		o.logger = calculation.NopLogger{}
		return
	}
	o.logger = l
}

// SetWorkers bounds how many strategies run at once. Zero or less runs
// every strategy concurrently; one runs them sequentially.
func (o *Orchestrator) SetWorkers(n int) {
	o.workers = n
}

// State reports where the orchestrator is in its lifecycle.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Run evaluates every strategy, merges their recommendations in strategy
// order, and ranks them by descending impact. Ties keep emission order.
// A failing or panicking strategy is recorded and the others still run.
func (o *Orchestrator) Run(tax *domain.TaxCalculationResult, profile *domain.FiscalProfile, octx domain.OptimizationContext) (*domain.OptimizationResult, error) {
	if tax == nil {
		return nil, &domain.ValidationError{Field: "tax_result", Constraint: "is required", Value: nil}
	}
	if profile == nil {
		return nil, &domain.ValidationError{Field: "profile", Constraint: "is required", Value: nil}
	}
	if err := validateInput(tax, profile, octx); err != nil {
		return nil, err
	}
	if tax.Year != o.rules.Year {
		return nil, &domain.ConfigurationError{Year: tax.Year, Key: "year", Reason: fmt.Sprintf("rule set is for %d", o.rules.Year)}
	}
	if err := config.ValidateHousehold(o.rules, profile); err != nil {
		return nil, err
	}

	if !o.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) &&
		!o.state.CompareAndSwap(int32(StateDone), int32(StateRunning)) {
		return nil, ErrBusy
	}
	defer o.state.Store(int32(StateDone))

	runID := uuid.NewString()
	o.logger.Debugf("optimization run %s: %d strategies for %d", runID, len(o.strategies), tax.Year)

	in := strategy.Input{Tax: tax, Profile: profile, Context: octx}
	outcomes := make([]strategy.Outcome, len(o.strategies))
	failures := make([]error, len(o.strategies))

	var g errgroup.Group
	if o.workers > 0 {
		g.SetLimit(o.workers)
	}
	for i, s := range o.strategies {
		g.Go(func() error {
			outcomes[i], failures[i] = evaluate(s, in)
			return nil // a failed strategy must not cancel the others
		})
	}
	_ = g.Wait()

	result := o.merge(outcomes, failures)
	result.RunID = runID
	result.Summary = summarize(tax.Year, result)

	o.logger.Infof("optimization run %s: %d recommendations, total %s, %d failures",
		runID, len(result.Recommendations), result.TotalSavings.StringFixed(2), len(result.Failures))
	return result, nil
}

// validateInput rejects a profile or context the calculator would refuse,
// and a profile that is not the one the tax result was computed for.
func validateInput(tax *domain.TaxCalculationResult, profile *domain.FiscalProfile, octx domain.OptimizationContext) error {
	if err := config.ValidateProfile(profile); err != nil {
		return err
	}
	if profile.Year != tax.Year {
		return &domain.ValidationError{Field: "year", Constraint: fmt.Sprintf("must match the tax result year %d", tax.Year), Value: profile.Year}
	}
	return config.ValidateContext(&octx)
}

// evaluate runs one strategy and turns an error or panic into a
// StrategyFailure.
func evaluate(s strategy.Strategy, in strategy.Input) (out strategy.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = strategy.Outcome{}
			err = &domain.StrategyFailure{Strategy: s.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = s.Evaluate(in)
	if err != nil {
		return strategy.Outcome{}, &domain.StrategyFailure{Strategy: s.Name(), Err: err}
	}
	return out, nil
}

func (o *Orchestrator) merge(outcomes []strategy.Outcome, failures []error) *domain.OptimizationResult {
	result := &domain.OptimizationResult{
		Recommendations: []domain.Recommendation{},
		TotalSavings:    decimal.Zero,
		Warnings:        []string{},
		Failures:        []domain.StrategyFailureRecord{},
	}

	seenIDs := make(map[string]bool)
	seenWarnings := make(map[string]bool)
	for i, outcome := range outcomes {
		if err := failures[i]; err != nil {
			name := o.strategies[i].Name()
			o.logger.Warnf("optimization: %v", err)
			result.Failures = append(result.Failures, domain.StrategyFailureRecord{Strategy: name, Error: err.Error()})
			continue
		}
		for _, r := range outcome.Recommendations {
			if seenIDs[r.ID] {
				continue
			}
			seenIDs[r.ID] = true
			result.Recommendations = append(result.Recommendations, r)
		}
		for _, w := range outcome.Warnings {
			if seenWarnings[w] {
				continue
			}
			seenWarnings[w] = true
			result.Warnings = append(result.Warnings, w)
		}
	}

	sort.SliceStable(result.Recommendations, func(a, b int) bool {
		return result.Recommendations[a].EstimatedImpact.GreaterThan(result.Recommendations[b].EstimatedImpact)
	})

	for _, r := range result.Recommendations {
		result.TotalSavings = result.TotalSavings.Add(r.EstimatedImpact)
		if o.IsHighPriority(r) {
			result.HighPriorityCount++
		}
	}
	result.Partial = len(result.Failures) > 0
	return result
}

// IsHighPriority reports whether a recommendation is within the risk and
// complexity limits the rule set marks as high priority.
func (o *Orchestrator) IsHighPriority(r domain.Recommendation) bool {
	limits := o.rules.Optimizer
	return r.Risk.Rank() <= limits.HighPriorityMaxRisk.Rank() &&
		r.Complexity.Rank() <= limits.HighPriorityMaxComplexity.Rank()
}

func summarize(year int, r *domain.OptimizationResult) string {
	var s string
	switch n := len(r.Recommendations); n {
	case 0:
		s = fmt.Sprintf("No savings opportunity found for %d.", year)
	default:
		top := r.Recommendations[0]
		s = fmt.Sprintf("%d %s for %d worth %s EUR in total, %d high priority. Largest: %s (%s EUR).",
			n, plural(n, "recommendation", "recommendations"), year, r.TotalSavings.StringFixed(2),
			r.HighPriorityCount, top.Title, top.EstimatedImpact.StringFixed(2))
	}
	if f := len(r.Failures); f > 0 {
		s += fmt.Sprintf(" %d %s failed; results are partial.", f, plural(f, "strategy", "strategies"))
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
