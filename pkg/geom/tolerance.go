package geom

import "math"

// DefaultPrecision is the number of significant decimal digits used when
// no precision is configured. It yields an epsilon of 1e-3.
const DefaultPrecision = 7

// Tolerance is the single numerical slack shared by every geometric
// comparison. Containment and overlap checks use the same epsilon so a
// circle tangent to the boundary and two tangent circles are judged
// consistently.
type Tolerance struct {
	Precision int
	Epsilon   float64
}

// NewTolerance derives the epsilon from a precision digit count:
// epsilon = 10^-(precision/2).
func NewTolerance(precision int) Tolerance {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return Tolerance{
		Precision: precision,
		Epsilon:   math.Pow(10, -float64(precision/2)),
	}
}

// DefaultTolerance returns the tolerance for DefaultPrecision.
func DefaultTolerance() Tolerance {
	return NewTolerance(DefaultPrecision)
}
