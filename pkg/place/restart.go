package place

import (
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/placement/pkg/arrange"
	"github.com/chazu/placement/pkg/geom"
)

// attemptResult scores one restart: the repaired layout, how many
// invariants it still violates, and how many circles it holds.
type attemptResult struct {
	arr        *arrange.Arrangement
	violations int
}

// restart repeatedly generates full random layouts and applies local
// repair, keeping the best attempt: fewest violations first, then lowest
// restart index. Attempt k derives its generator from (seed, k), so each
// attempt is reproducible in isolation and the winner is the same
// whether attempts run sequentially or in parallel. The only shared
// step is the final reduction.
func (p *Placer) restart(reg geom.Region, radii []float64, seed uint64, b Budget, tol geom.Tolerance, parallel bool) (*arrange.Arrangement, error) {
	results := make([]*attemptResult, b.MaxRestarts)

	attempt := func(k int) *attemptResult {
		rng := rand.New(rand.NewPCG(seed, seedStream+uint64(k)+1))
		circles := p.randomLayout(reg, radii, rng, tol)
		circles = p.repair(reg, circles, b.MaxIterations, tol, rng)
		arr := &arrange.Arrangement{Circles: circles}
		report := arrange.Verify(reg, arr, tol)
		return &attemptResult{arr: arr, violations: len(report.Violations)}
	}

	if parallel {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for k := 0; k < b.MaxRestarts; k++ {
			g.Go(func() error {
				results[k] = attempt(k)
				return nil
			})
		}
		// Attempts never fail; errgroup only bounds concurrency here.
		_ = g.Wait()
	} else {
		for k := 0; k < b.MaxRestarts; k++ {
			results[k] = attempt(k)
			if results[k].violations == 0 {
				break
			}
		}
	}

	var best *attemptResult
	for _, res := range results {
		if res == nil {
			continue
		}
		if best == nil || res.violations < best.violations {
			best = res
		}
	}
	if best == nil {
		return nil, &NoSolutionError{Strategy: Restart}
	}
	return best.arr, nil
}

// layoutSampleCap bounds the per-circle containment retries when seeding
// a random layout. A circle that finds no fitting center starts at the
// last sample and relies on repair to pull it inside.
const layoutSampleCap = 32

// randomLayout samples one full layout, circle centers drawn uniformly
// from the eroded domain's bounding box.
func (p *Placer) randomLayout(reg geom.Region, radii []float64, rng *rand.Rand, tol geom.Tolerance) []geom.Circle {
	circles := make([]geom.Circle, len(radii))
	for i, r := range radii {
		eroded := p.engine.Erode(reg, r)
		lo, hi := eroded.BoundingBox()
		var c geom.Circle
		for try := 0; try < layoutSampleCap; try++ {
			c = geom.Circle{
				X: lo.X + rng.Float64()*(hi.X-lo.X),
				Y: lo.Y + rng.Float64()*(hi.Y-lo.Y),
				R: r,
			}
			if eroded.Distance(c.Center()) <= tol.Epsilon {
				break
			}
		}
		circles[i] = c
	}
	return circles
}
