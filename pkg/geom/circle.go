package geom

import "math"

// Circle is a center coordinate plus a non-negative radius. Identity is
// positional: two circles are equal iff center and radius match within
// tolerance.
type Circle struct {
	X, Y, R float64
}

// Center returns the circle's center point.
func (c Circle) Center() Vec {
	return Vec{c.X, c.Y}
}

// Bounds returns the circle's axis-aligned bounding box.
func (c Circle) Bounds() (min, max Vec) {
	return Vec{c.X - c.R, c.Y - c.R}, Vec{c.X + c.R, c.Y + c.R}
}

// Equal reports whether two circles coincide within epsilon.
func (c Circle) Equal(o Circle, tol Tolerance) bool {
	return math.Abs(c.X-o.X) <= tol.Epsilon &&
		math.Abs(c.Y-o.Y) <= tol.Epsilon &&
		math.Abs(c.R-o.R) <= tol.Epsilon
}

// Dist returns the distance between the centers of two circles.
func Dist(a, b Circle) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// CircleDistance returns the gap between two circle boundaries: negative
// when they overlap, zero when tangent, positive when separated.
func CircleDistance(a, b Circle) float64 {
	return Dist(a, b) - a.R - b.R
}

// CirclesOverlap reports whether two circles overlap by more than
// epsilon. Tangency within epsilon counts as non-overlapping.
func CirclesOverlap(a, b Circle, tol Tolerance) bool {
	return CircleDistance(a, b) < -tol.Epsilon
}

// BoxesOverlap reports whether the bounding boxes of two circles
// intersect. Used by index backends as the cheap candidate filter.
func BoxesOverlap(a, b Circle) bool {
	aMin, aMax := a.Bounds()
	bMin, bMax := b.Bounds()
	return aMin.X <= bMax.X && bMin.X <= aMax.X &&
		aMin.Y <= bMax.Y && bMin.Y <= aMax.Y
}

// IntersectionPoints returns the two points where the boundaries of a
// and b cross, and true. It returns false when the circles are
// separated, nested, or coincident.
func IntersectionPoints(a, b Circle) (p1, p2 Vec, ok bool) {
	d := Dist(a, b)
	switch {
	case d > a.R+b.R:
		return Vec{}, Vec{}, false // separated
	case d < math.Abs(a.R-b.R):
		return Vec{}, Vec{}, false // nested
	case d == 0 && a.R == b.R:
		return Vec{}, Vec{}, false // coincident
	}

	// Foot of the radical line along the center line, then offset
	// perpendicular by the half-chord height.
	l := (a.R*a.R - b.R*b.R + d*d) / (2 * d)
	h := math.Sqrt(a.R*a.R - l*l)

	mx := a.X + l*(b.X-a.X)/d
	my := a.Y + l*(b.Y-a.Y)/d

	p1 = Vec{mx + h*(b.Y-a.Y)/d, my - h*(b.X-a.X)/d}
	p2 = Vec{mx - h*(b.Y-a.Y)/d, my + h*(b.X-a.X)/d}
	return p1, p2, true
}
