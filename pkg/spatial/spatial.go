// Package spatial provides candidate-overlap acceleration structures for
// circle arrangements. An index maps circle bounding boxes to arrangement
// positions so that overlap checks consult a short candidate list instead
// of every placed circle. Candidate lists are a superset of the true
// geometric conflicts; callers prune them with exact predicates.
package spatial

import (
	"sort"

	"github.com/chazu/placement/pkg/geom"
)

// Index is the common contract for candidate-overlap acceleration.
// Entries are identified by the circle's integer position in the
// arrangement; the index never owns circle data.
type Index interface {
	// Insert registers a circle under the given arrangement position.
	Insert(c geom.Circle, i int)
	// Remove drops the entry for an arrangement position, if present.
	Remove(i int)
	// Candidates returns, in ascending order, the positions of inserted
	// circles whose bounding boxes overlap the query circle's bounding
	// box.
	Candidates(c geom.Circle) []int
	// Len returns the number of live entries.
	Len() int
}

// linearThreshold is the circle count below which a plain scan beats any
// index structure.
const linearThreshold = 16

// spreadRatio is the max/median radius ratio above which a fixed grid
// cell fits the workload poorly and the R-tree takes over.
const spreadRatio = 4

// ForRadii picks an index implementation for a placement run: a linear
// scan for trivial inputs, a uniform grid with cell side about twice the
// median radius when radii are roughly uniform, and an R-tree when they
// are not.
func ForRadii(radii []float64) Index {
	if len(radii) < linearThreshold {
		return NewLinear()
	}
	med := medianRadius(radii)
	if maxRadius(radii) > spreadRatio*med {
		return NewRTree()
	}
	return NewGrid(2 * med)
}

func medianRadius(radii []float64) float64 {
	sorted := make([]float64, len(radii))
	copy(sorted, radii)
	sort.Float64s(sorted)
	m := sorted[len(sorted)/2]
	if m <= 0 {
		m = 1
	}
	return m
}

func maxRadius(radii []float64) float64 {
	m := 0.0
	for _, r := range radii {
		if r > m {
			m = r
		}
	}
	return m
}

// Linear is the trivial index: a dense list scanned in full on every
// query. Correct for any input, fastest for small ones.
type Linear struct {
	entries map[int]geom.Circle
}

// NewLinear returns an empty linear index.
func NewLinear() *Linear {
	return &Linear{entries: make(map[int]geom.Circle)}
}

func (l *Linear) Insert(c geom.Circle, i int) {
	l.entries[i] = c
}

func (l *Linear) Remove(i int) {
	delete(l.entries, i)
}

func (l *Linear) Candidates(c geom.Circle) []int {
	var out []int
	for i, e := range l.entries {
		if geom.BoxesOverlap(c, e) {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (l *Linear) Len() int {
	return len(l.entries)
}
