package breakeven

import (
	"github.com/rgehrsitz/fiscopt/internal/domain"
	"github.com/shopspring/decimal"
)

// Target names the amount a break-even search solves for.
type Target string

const (
	// TargetReelExpenses is the deductible expense level from which the réel
	// regime costs no more than micro.
	TargetReelExpenses Target = "reel_expenses"
	// TargetPERBracket is the retirement contribution that moves part income
	// below the lower bound of its current bracket.
	TargetPERBracket Target = "per_bracket"
	TargetAll        Target = "all"
)

// Targets lists the solvable targets in report order.
var Targets = []Target{TargetReelExpenses, TargetPERBracket}

// Request defines one break-even search.
type Request struct {
	Profile       *domain.FiscalProfile
	Target        Target
	MaxIterations int             // Maximum search iterations
	Step          decimal.Decimal // Resolution of the answer
}

// Result is the outcome of one search. BreakEven is nil when no amount in
// the searched range reaches the target.
type Result struct {
	Target          Target           `json:"target"`
	Success         bool             `json:"success"`
	Iterations      int              `json:"iterations"`
	ConvergenceInfo string           `json:"convergenceInfo"`
	Current         decimal.Decimal  `json:"current"`
	BreakEven       *decimal.Decimal `json:"breakEven,omitempty"`
	Gap             decimal.Decimal  `json:"gap"`
	NetTaxCurrent   decimal.Decimal  `json:"netTaxCurrent"`
	NetTaxBreakEven decimal.Decimal  `json:"netTaxBreakEven"`
}

// SolverOptions configures the search
type SolverOptions struct {
	Step          decimal.Decimal // Resolution of the answer
	MaxIterations int             // Maximum iterations
}

// DefaultSolverOptions searches to the cent.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Step:          decimal.RequireFromString("0.01"),
		MaxIterations: 64,
	}
}

// BreakEvenError represents errors from the break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
