package place

import (
	"math"
	"math/rand/v2"

	"github.com/chazu/placement/pkg/arrange"
	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/spatial"
)

// relax seeds circle centers on a regular lattice sized to the largest
// radius, then runs bounded push-apart passes until the layout is
// feasible or the iteration cap is reached. The caller verifies the
// result; a layout that still violates after the cap becomes a
// NoSolutionError there.
func (p *Placer) relax(reg geom.Region, radii []float64, rng *rand.Rand, b Budget, tol geom.Tolerance) (*arrange.Arrangement, error) {
	circles := p.latticeSeed(reg, radii, tol)
	circles = p.repair(reg, circles, b.MaxIterations, tol, rng)
	return &arrange.Arrangement{Circles: circles}, nil
}

// latticeMaxPerAxis caps the lattice resolution per axis.
const latticeMaxPerAxis = 256

// latticeSeed lays radii out row-major on a square lattice spaced by
// twice the largest radius, restricted to centers where the largest
// circle fits. When the lattice has fewer points than radii, assignment
// wraps around; the duplicates separate during repair.
func (p *Placer) latticeSeed(reg geom.Region, radii []float64, tol geom.Tolerance) []geom.Circle {
	if len(radii) == 0 {
		return nil
	}
	maxR := 0.0
	for _, r := range radii {
		if r > maxR {
			maxR = r
		}
	}
	eroded := p.engine.Erode(reg, maxR)
	lo, hi := eroded.BoundingBox()

	// Floor the spacing against both the tolerance and the box size, so
	// degenerate radii (all zero) cannot blow the lattice up to millions
	// of points.
	spacing := 2 * maxR
	if floor := math.Max(hi.X-lo.X, hi.Y-lo.Y) / latticeMaxPerAxis; spacing < floor {
		spacing = floor
	}
	if spacing < tol.Epsilon {
		spacing = tol.Epsilon
	}

	var pts []geom.Vec
	for y := lo.Y; y <= hi.Y; y += spacing {
		for x := lo.X; x <= hi.X; x += spacing {
			pt := geom.Vec{X: x, Y: y}
			if eroded.Distance(pt) <= tol.Epsilon {
				pts = append(pts, pt)
			}
		}
	}
	if len(pts) == 0 {
		// Degenerate lattice: every circle starts at the box center.
		pts = []geom.Vec{{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2}}
	}

	circles := make([]geom.Circle, len(radii))
	for i, r := range radii {
		pt := pts[i%len(pts)]
		circles[i] = geom.Circle{X: pt.X, Y: pt.Y, R: r}
	}
	return circles
}

// repair runs local-adjustment passes over a full layout: overlapping
// neighbors are pushed apart along their center line by half the
// penetration depth each, and circles pushed out of the domain are
// pulled back in along the distance-field gradient. The spatial index is
// rebuilt once per pass, so stale candidate lists within a pass only
// delay a fix to the next pass, never lose it.
func (p *Placer) repair(reg geom.Region, circles []geom.Circle, maxIter int, tol geom.Tolerance, rng *rand.Rand) []geom.Circle {
	for iter := 0; iter < maxIter; iter++ {
		idx := spatial.ForRadii(radiiOf(circles))
		for i, c := range circles {
			idx.Insert(c, i)
		}

		moved := false
		for i := range circles {
			for _, j := range idx.Candidates(circles[i]) {
				if j == i {
					continue
				}
				if separate(&circles[i], &circles[j], tol, rng) {
					moved = true
				}
			}
			if clampInside(reg, &circles[i], tol) {
				moved = true
			}
		}
		if !moved {
			break
		}
	}
	return circles
}

// separate pushes two overlapping circles apart, half the penetration
// depth each. Coincident centers get a random push direction.
func separate(a, b *geom.Circle, tol geom.Tolerance, rng *rand.Rand) bool {
	gap := geom.CircleDistance(*a, *b)
	if gap >= -tol.Epsilon {
		return false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		theta := rng.Float64() * 2 * math.Pi
		dx, dy, d = math.Cos(theta), math.Sin(theta), 1
	}
	shift := -gap / 2
	a.X -= dx / d * shift
	a.Y -= dy / d * shift
	b.X += dx / d * shift
	b.Y += dy / d * shift
	return true
}

// gradStep is the finite-difference step for distance-field gradients.
const gradStep = 1e-6

// clampInside moves a circle that sticks out of the domain back in along
// the descent direction of the signed distance field.
func clampInside(reg geom.Region, c *geom.Circle, tol geom.Tolerance) bool {
	excess := reg.Distance(c.Center()) + c.R
	if excess <= tol.Epsilon {
		return false
	}
	gx := (reg.Distance(geom.Vec{X: c.X + gradStep, Y: c.Y}) - reg.Distance(geom.Vec{X: c.X - gradStep, Y: c.Y})) / (2 * gradStep)
	gy := (reg.Distance(geom.Vec{X: c.X, Y: c.Y + gradStep}) - reg.Distance(geom.Vec{X: c.X, Y: c.Y - gradStep})) / (2 * gradStep)
	n := math.Hypot(gx, gy)
	if n == 0 {
		return false
	}
	c.X -= gx / n * excess
	c.Y -= gy / n * excess
	return true
}

func radiiOf(circles []geom.Circle) []float64 {
	out := make([]float64, len(circles))
	for i, c := range circles {
		out[i] = c.R
	}
	return out
}
