// Package sdfx implements the geom.Engine interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Regions are represented
// as 2D signed distance fields; the signed distance is the predicate
// oracle for every containment and overlap decision upstream.
package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/chazu/placement/pkg/geom"
)

// Compile-time interface check.
var _ geom.Engine = (*Engine)(nil)

// sdfRegion wraps an sdf.SDF2 to implement geom.Region.
type sdfRegion struct {
	s sdf.SDF2
}

// BoundingBox returns the axis-aligned bounding box.
func (r *sdfRegion) BoundingBox() (min, max geom.Vec) {
	bb := r.s.BoundingBox()
	return geom.Vec{X: bb.Min.X, Y: bb.Min.Y}, geom.Vec{X: bb.Max.X, Y: bb.Max.Y}
}

// Distance returns the signed distance from p to the region boundary.
func (r *sdfRegion) Distance(p geom.Vec) float64 {
	return r.s.Evaluate(v2.Vec{X: p.X, Y: p.Y})
}

// Engine implements geom.Engine using sdfx.
type Engine struct{}

// New returns a new sdfx-backed engine.
func New() *Engine {
	return &Engine{}
}

// unwrap extracts the underlying sdf.SDF2 from a geom.Region.
func unwrap(r geom.Region) sdf.SDF2 {
	return r.(*sdfRegion).s
}

// wrap creates a geom.Region from an sdf.SDF2.
func wrap(s sdf.SDF2) geom.Region {
	return &sdfRegion{s: s}
}

// Rect builds the rectangle [0,w] x [0,h]. sdf.Box2D centers the box at
// the origin, so we translate by half-dimensions to put the minimum
// corner at (0,0).
func (e *Engine) Rect(w, h float64) (geom.Region, error) {
	if w <= 0 || h <= 0 {
		return nil, &geom.GeometryError{Op: "rect", Msg: "dimensions must be positive"}
	}
	s := sdf.Box2D(v2.Vec{X: w, Y: h}, 0)
	m := sdf.Translate2d(v2.Vec{X: w / 2, Y: h / 2})
	return wrap(sdf.Transform2D(s, m)), nil
}

// Disk builds a disk of radius r centered at the origin.
func (e *Engine) Disk(r float64) (geom.Region, error) {
	if r <= 0 {
		return nil, &geom.GeometryError{Op: "disk", Msg: "radius must be positive"}
	}
	s, err := sdf.Circle2D(r)
	if err != nil {
		return nil, &geom.GeometryError{Op: "disk", Msg: "sdf.Circle2D", Err: err}
	}
	return wrap(s), nil
}

// Polygon builds a simple polygon. Degenerate input (fewer than three
// vertices, zero area) is rejected before reaching sdfx.
func (e *Engine) Polygon(pts []geom.Vec) (geom.Region, error) {
	if len(pts) < 3 {
		return nil, &geom.GeometryError{Op: "polygon", Msg: "need at least 3 vertices"}
	}
	if math.Abs(signedArea(pts)) < 1e-12 {
		return nil, &geom.GeometryError{Op: "polygon", Msg: "zero-area polygon"}
	}
	verts := make([]v2.Vec, len(pts))
	for i, p := range pts {
		verts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	s, err := sdf.Polygon2D(verts)
	if err != nil {
		return nil, &geom.GeometryError{Op: "polygon", Msg: "sdf.Polygon2D", Err: err}
	}
	return wrap(s), nil
}

// Circle builds a circle as a buffered point at the circle's center.
func (e *Engine) Circle(c geom.Circle) (geom.Region, error) {
	if c.R < 0 {
		return nil, &geom.GeometryError{Op: "circle", Msg: "negative radius"}
	}
	s, err := sdf.Circle2D(c.R)
	if err != nil {
		return nil, &geom.GeometryError{Op: "circle", Msg: "sdf.Circle2D", Err: err}
	}
	m := sdf.Translate2d(v2.Vec{X: c.X, Y: c.Y})
	return wrap(sdf.Transform2D(s, m)), nil
}

// Erode shrinks a region inward by the given amount via a negative
// offset of the distance field.
func (e *Engine) Erode(r geom.Region, by float64) geom.Region {
	return wrap(sdf.Offset2D(unwrap(r), -by))
}

// signedArea returns twice the signed area of a polygon (shoelace).
func signedArea(pts []geom.Vec) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return a
}
