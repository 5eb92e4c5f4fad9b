// Package geom defines the abstract planar geometry engine interface.
// Implementations (sdfx) provide region construction and signed-distance
// queries behind this interface. The engine abstraction allows swapping
// geometry backends without changing the placement algorithms.
package geom

import "math"

// Vec is a point or vector in the plane.
type Vec struct {
	X, Y float64
}

// Region is an opaque handle to an engine-built planar region.
// Distance is a signed distance to the region boundary: negative inside,
// positive outside, zero on the boundary (within the engine's own
// numerical behavior).
type Region interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max Vec)
	// Distance returns the signed distance from p to the region boundary.
	Distance(p Vec) float64
}

// Engine is the abstract planar geometry engine interface.
// All constructors report malformed input as *GeometryError.
type Engine interface {
	// Rect builds the axis-aligned rectangle [0,w] x [0,h].
	Rect(w, h float64) (Region, error)
	// Disk builds a disk of radius r centered at the origin.
	Disk(r float64) (Region, error)
	// Polygon builds a simple polygon from its vertices.
	Polygon(pts []Vec) (Region, error)
	// Circle builds a circle as a buffered point.
	Circle(c Circle) (Region, error)
	// Erode shrinks a region inward by the given amount. Points of the
	// eroded region are exactly the centers at which a circle of radius
	// `by` fits inside the original region.
	Erode(r Region, by float64) Region
}

// DomainKind enumerates the supported domain shapes.
type DomainKind int

const (
	DomainRect DomainKind = iota
	DomainDisk
	DomainPolygon
)

// Domain is an immutable description of the planar region circles must
// lie within. It is a value; the engine turns it into a Region once per
// placement run.
type Domain struct {
	Kind     DomainKind
	Width    float64 // rect
	Height   float64 // rect
	Radius   float64 // disk
	Vertices []Vec   // polygon
}

// RectDomain describes the rectangle [0,w] x [0,h].
func RectDomain(w, h float64) Domain {
	return Domain{Kind: DomainRect, Width: w, Height: h}
}

// DiskDomain describes a disk of radius r centered at the origin.
func DiskDomain(r float64) Domain {
	return Domain{Kind: DomainDisk, Radius: r}
}

// PolygonDomain describes a simple polygon.
func PolygonDomain(pts []Vec) Domain {
	v := make([]Vec, len(pts))
	copy(v, pts)
	return Domain{Kind: DomainPolygon, Vertices: v}
}

// Build constructs the engine region for a domain description.
func Build(e Engine, d Domain) (Region, error) {
	switch d.Kind {
	case DomainRect:
		return e.Rect(d.Width, d.Height)
	case DomainDisk:
		return e.Disk(d.Radius)
	case DomainPolygon:
		return e.Polygon(d.Vertices)
	}
	return nil, &GeometryError{Op: "build", Msg: "unknown domain kind"}
}

// inscribedSamples is the per-axis sampling resolution used to estimate
// the inscribed radius of polygonal domains.
const inscribedSamples = 64

// InscribedRadius returns an upper bound on the radius of the largest
// circle that fits anywhere inside the domain, for use as a fail-fast
// rejection threshold. Rectangles and disks have exact closed forms.
// Polygons are estimated by sampling the signed distance field over the
// bounding box; the deepest sample is padded by the sample-cell half
// diagonal, which covers the true optimum because the distance field is
// 1-Lipschitz, so a feasible radius is never rejected.
func InscribedRadius(e Engine, d Domain) (float64, error) {
	switch d.Kind {
	case DomainRect:
		return min(d.Width, d.Height) / 2, nil
	case DomainDisk:
		return d.Radius, nil
	case DomainPolygon:
		reg, err := e.Polygon(d.Vertices)
		if err != nil {
			return 0, err
		}
		lo, hi := reg.BoundingBox()
		dx := (hi.X - lo.X) / inscribedSamples
		dy := (hi.Y - lo.Y) / inscribedSamples
		best := 0.0
		for i := 0; i <= inscribedSamples; i++ {
			for j := 0; j <= inscribedSamples; j++ {
				p := Vec{X: lo.X + dx*float64(i), Y: lo.Y + dy*float64(j)}
				if depth := -reg.Distance(p); depth > best {
					best = depth
				}
			}
		}
		return best + math.Hypot(dx, dy)/2, nil
	}
	return 0, &GeometryError{Op: "inscribed-radius", Msg: "unknown domain kind"}
}

// ContainsCircle reports whether circle c lies entirely within the
// region. A circle within epsilon of the boundary counts as contained,
// so tangent placements do not flap between valid and invalid.
func ContainsCircle(reg Region, c Circle, tol Tolerance) bool {
	return reg.Distance(Vec{c.X, c.Y}) <= -(c.R - tol.Epsilon)
}
