package breakeven

import (
	"context"

	"github.com/rgehrsitz/fiscopt/internal/domain"
)

// SolveAll runs every target against the profile in Targets order. A target
// that cannot be reached is reported with Success false; only calculation
// errors abort the run.
func (s *Solver) SolveAll(ctx context.Context, profile *domain.FiscalProfile) ([]Result, error) {
	results := make([]Result, 0, len(Targets))
	for _, target := range Targets {
		res, err := s.Solve(ctx, Request{Profile: profile, Target: target})
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
	}
	return results, nil
}

// Resolve expands TargetAll into the individual targets.
func Resolve(target Target) []Target {
	if target == TargetAll || target == "" {
		return Targets
	}
	return []Target{target}
}
