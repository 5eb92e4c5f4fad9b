package place

import (
	"math/rand/v2"

	"github.com/chazu/placement/pkg/arrange"
	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/spatial"
)

// greedy places radii in the given order. For each circle it samples
// candidate centers inside the domain eroded by the radius and accepts
// the first one that fits and overlaps nothing already placed. A point
// of the eroded region is exactly a center at which the circle fits, so
// the acceptance test matches the containment predicate the checker
// applies later.
func (p *Placer) greedy(reg geom.Region, radii []float64, rng *rand.Rand, b Budget, tol geom.Tolerance, skipUnplaced bool) (*arrange.Arrangement, error) {
	arr := arrange.New(len(radii))
	idx := spatial.ForRadii(radii)

	for _, r := range radii {
		c, ok := p.placeOne(reg, r, rng, b.MaxAttempts, tol, idx, arr)
		if !ok {
			if skipUnplaced {
				continue
			}
			return nil, &NoSolutionError{Strategy: Greedy}
		}
		i := arr.Add(c)
		idx.Insert(c, i)
	}
	return arr, nil
}

// placeOne runs the bounded candidate-center search for a single circle.
func (p *Placer) placeOne(reg geom.Region, r float64, rng *rand.Rand, maxAttempts int, tol geom.Tolerance, idx spatial.Index, arr *arrange.Arrangement) (geom.Circle, bool) {
	eroded := p.engine.Erode(reg, r)
	lo, hi := eroded.BoundingBox()
	w, h := hi.X-lo.X, hi.Y-lo.Y

	for try := 0; try < maxAttempts; try++ {
		c := geom.Circle{
			X: lo.X + rng.Float64()*w,
			Y: lo.Y + rng.Float64()*h,
			R: r,
		}
		if eroded.Distance(c.Center()) > tol.Epsilon {
			continue // circle does not fit here
		}
		if overlapsAny(idx, arr, c, tol) {
			continue
		}
		return c, true
	}
	return geom.Circle{}, false
}
