package place

import (
	"fmt"

	"github.com/chazu/placement/pkg/arrange"
)

// InfeasibleError reports a radius that cannot possibly fit the domain,
// detected by the pre-check before any search runs.
type InfeasibleError struct {
	Index     int     // position in the request's radius list
	Radius    float64 // offending radius
	Inscribed float64 // the domain's inscribed radius
}

func (e *InfeasibleError) Error() string {
	if e.Radius < 0 {
		return fmt.Sprintf("infeasible input: radius %d is negative (%g)", e.Index, e.Radius)
	}
	return fmt.Sprintf("infeasible input: radius %d (%g) exceeds the domain's inscribed radius (%g)",
		e.Index, e.Radius, e.Inscribed)
}

// NoSolutionError reports that the search budget was exhausted without
// reaching a feasible arrangement. It is recoverable: callers may retry
// with a larger budget, a different seed, or a different strategy.
type NoSolutionError struct {
	Strategy Strategy
	// Report holds the violations of the best candidate found, when the
	// strategy produced one.
	Report arrange.Report
}

func (e *NoSolutionError) Error() string {
	if n := len(e.Report.Violations); n > 0 {
		return fmt.Sprintf("no solution found: %v strategy exhausted its budget with %d violations remaining", e.Strategy, n)
	}
	return fmt.Sprintf("no solution found: %v strategy exhausted its budget", e.Strategy)
}
