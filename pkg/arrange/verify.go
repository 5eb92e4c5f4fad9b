package arrange

import (
	"fmt"

	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/spatial"
)

// ViolationKind classifies a feasibility failure.
type ViolationKind int

const (
	// NegativeRadius marks a circle with radius < 0.
	NegativeRadius ViolationKind = iota
	// OutOfDomain marks a circle not contained in the domain.
	OutOfDomain
	// Overlap marks a pair of circles closer than the sum of their radii.
	Overlap
)

func (k ViolationKind) String() string {
	switch k {
	case NegativeRadius:
		return "negative-radius"
	case OutOfDomain:
		return "out-of-domain"
	case Overlap:
		return "overlap"
	}
	return "unknown"
}

// Violation identifies one failed invariant. I is the offending circle's
// position; J is the second circle of an overlapping pair and is -1
// otherwise.
type Violation struct {
	Kind ViolationKind
	I, J int
}

func (v Violation) String() string {
	if v.Kind == Overlap {
		return fmt.Sprintf("%s: circles %d and %d", v.Kind, v.I, v.J)
	}
	return fmt.Sprintf("%s: circle %d", v.Kind, v.I)
}

// Report is the verdict of one feasibility check. It is produced fresh
// per check and never persisted.
type Report struct {
	OK         bool
	Violations []Violation
}

// Verify checks every circle for domain containment and every candidate
// pair for overlap. Pairwise checks go through a spatial index candidate
// list pruned by exact predicates, never a full pairwise scan above the
// linear-index threshold. Verify is pure and idempotent: it mutates
// nothing and repeated calls yield identical reports.
func Verify(reg geom.Region, a *Arrangement, tol geom.Tolerance) Report {
	var violations []Violation

	idx := spatial.ForRadii(a.Radii())
	for i, c := range a.Circles {
		if c.R < 0 {
			violations = append(violations, Violation{Kind: NegativeRadius, I: i, J: -1})
			continue
		}
		if !geom.ContainsCircle(reg, c, tol) {
			violations = append(violations, Violation{Kind: OutOfDomain, I: i, J: -1})
		}
		// Candidates are all previously inserted circles, so each pair
		// is reported once with I < J.
		for _, j := range idx.Candidates(c) {
			if geom.CirclesOverlap(a.Circles[j], c, tol) {
				violations = append(violations, Violation{Kind: Overlap, I: j, J: i})
			}
		}
		idx.Insert(c, i)
	}

	return Report{OK: len(violations) == 0, Violations: violations}
}
