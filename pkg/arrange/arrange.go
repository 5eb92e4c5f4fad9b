// Package arrange defines circle arrangements and their feasibility
// checking. An arrangement is the ordered output of one placement run;
// feasibility means every circle lies inside the domain and no two
// circles overlap, judged with a single shared tolerance.
package arrange

import "github.com/chazu/placement/pkg/geom"

// Arrangement is an ordered collection of placed circles. Insertion
// order matters only for reproducibility and debugging, not for
// correctness.
type Arrangement struct {
	Circles []geom.Circle
}

// New returns an empty arrangement with capacity for n circles.
func New(n int) *Arrangement {
	return &Arrangement{Circles: make([]geom.Circle, 0, n)}
}

// Add appends a circle and returns its position.
func (a *Arrangement) Add(c geom.Circle) int {
	a.Circles = append(a.Circles, c)
	return len(a.Circles) - 1
}

// Len returns the number of circles.
func (a *Arrangement) Len() int {
	return len(a.Circles)
}

// Snapshot returns an independent copy for hand-off. The placement
// engine owns an arrangement exclusively while constructing it and
// releases only snapshots.
func (a *Arrangement) Snapshot() *Arrangement {
	out := &Arrangement{Circles: make([]geom.Circle, len(a.Circles))}
	copy(out.Circles, a.Circles)
	return out
}

// Radii returns the radii of all circles in arrangement order.
func (a *Arrangement) Radii() []float64 {
	out := make([]float64, len(a.Circles))
	for i, c := range a.Circles {
		out[i] = c.R
	}
	return out
}
