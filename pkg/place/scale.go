package place

import (
	"errors"
	"fmt"

	"github.com/chazu/placement/pkg/arrange"
)

// MaxFeasibleScale bisects for the largest uniform factor s in [lo, hi]
// such that the request still places with every radius multiplied by s.
// Feasibility is monotone in the scale, so bisection converges to within
// the tolerance epsilon. Returns the best scale, the arrangement placed
// at that scale, or a NoSolutionError when even lo fails.
//
// Geometry errors abort the search immediately; search failures at a
// probe simply shrink the interval.
func (p *Placer) MaxFeasibleScale(req Request, lo, hi float64) (float64, *arrange.Arrangement, error) {
	if lo <= 0 || hi <= lo {
		return 0, nil, fmt.Errorf("max feasible scale: invalid interval [%g, %g]", lo, hi)
	}
	tol := req.Tolerance()

	bestScale := 0.0
	var bestArr *arrange.Arrangement

	probe := func(s float64) (bool, error) {
		scaled := req
		scaled.Radii = make([]float64, len(req.Radii))
		for i, r := range req.Radii {
			scaled.Radii[i] = r * s
		}
		arr, err := p.Place(scaled)
		if err != nil {
			var infeasible *InfeasibleError
			var noSolution *NoSolutionError
			if errors.As(err, &infeasible) || errors.As(err, &noSolution) {
				return false, nil
			}
			return false, err
		}
		if s > bestScale {
			bestScale = s
			bestArr = arr
		}
		return true, nil
	}

	// Establish a feasible lower end before narrowing.
	ok, err := probe(lo)
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, &NoSolutionError{Strategy: req.Strategy}
	}

	for hi-lo > tol.Epsilon {
		mid := (lo + hi) / 2
		ok, err := probe(mid)
		if err != nil {
			return 0, nil, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}
	return bestScale, bestArr, nil
}
