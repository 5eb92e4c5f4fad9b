package arrange

import (
	"reflect"
	"testing"

	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/geom/sdfx"
)

func mustRect(t *testing.T, w, h float64) geom.Region {
	t.Helper()
	reg, err := sdfx.New().Rect(w, h)
	if err != nil {
		t.Fatalf("Rect failed: %v", err)
	}
	return reg
}

func TestVerifyPass(t *testing.T) {
	reg := mustRect(t, 10, 10)
	arr := &Arrangement{Circles: []geom.Circle{
		{X: 2, Y: 2, R: 1},
		{X: 8, Y: 2, R: 1},
		{X: 2, Y: 8, R: 1},
		{X: 8, Y: 8, R: 1},
	}}

	report := Verify(reg, arr, geom.DefaultTolerance())
	if !report.OK {
		t.Fatalf("expected pass, got violations %v", report.Violations)
	}
}

func TestVerifyTangentPass(t *testing.T) {
	// Tangent to each other and to the wall: both within epsilon, both
	// accepted.
	reg := mustRect(t, 10, 10)
	arr := &Arrangement{Circles: []geom.Circle{
		{X: 1, Y: 5, R: 1},
		{X: 3, Y: 5, R: 1},
	}}

	report := Verify(reg, arr, geom.DefaultTolerance())
	if !report.OK {
		t.Fatalf("expected tangent arrangement to pass, got %v", report.Violations)
	}
}

func TestVerifyViolations(t *testing.T) {
	reg := mustRect(t, 10, 10)

	tests := []struct {
		name    string
		circles []geom.Circle
		want    []Violation
	}{
		{
			name: "overlap",
			circles: []geom.Circle{
				{X: 4, Y: 5, R: 1},
				{X: 5, Y: 5, R: 1},
			},
			want: []Violation{{Kind: Overlap, I: 0, J: 1}},
		},
		{
			name: "out of domain",
			circles: []geom.Circle{
				{X: 0.5, Y: 5, R: 1},
			},
			want: []Violation{{Kind: OutOfDomain, I: 0, J: -1}},
		},
		{
			name: "negative radius",
			circles: []geom.Circle{
				{X: 5, Y: 5, R: -1},
			},
			want: []Violation{{Kind: NegativeRadius, I: 0, J: -1}},
		},
		{
			name: "overlap pair reported once",
			circles: []geom.Circle{
				{X: 4, Y: 5, R: 1},
				{X: 5, Y: 5, R: 1},
				{X: 8, Y: 8, R: 1},
			},
			want: []Violation{{Kind: Overlap, I: 0, J: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr := &Arrangement{Circles: tt.circles}
			report := Verify(reg, arr, geom.DefaultTolerance())
			if report.OK {
				t.Fatal("expected violations")
			}
			if !reflect.DeepEqual(report.Violations, tt.want) {
				t.Fatalf("Violations = %v, want %v", report.Violations, tt.want)
			}
		})
	}
}

func TestVerifyIdempotent(t *testing.T) {
	reg := mustRect(t, 10, 10)
	arr := &Arrangement{Circles: []geom.Circle{
		{X: 4, Y: 5, R: 1},
		{X: 5, Y: 5, R: 1},
		{X: 0.2, Y: 0.2, R: 1},
	}}
	before := arr.Snapshot()

	tol := geom.DefaultTolerance()
	first := Verify(reg, arr, tol)
	second := Verify(reg, arr, tol)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated verification differed: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(arr.Circles, before.Circles) {
		t.Fatal("Verify mutated its input")
	}
}

func TestVerifyManyCircles(t *testing.T) {
	// Above the linear-index threshold the grid path runs; the verdict
	// must not change.
	reg := mustRect(t, 100, 100)
	arr := New(0)
	for y := 0; y < 5; y++ {
		for x := 0; x < 10; x++ {
			arr.Add(geom.Circle{X: 5 + float64(x)*9, Y: 5 + float64(y)*9, R: 1})
		}
	}

	report := Verify(reg, arr, geom.DefaultTolerance())
	if !report.OK {
		t.Fatalf("expected pass, got %v", report.Violations)
	}

	// Introduce one overlap and expect exactly one violation.
	arr.Circles[1].X = arr.Circles[0].X + 1
	arr.Circles[1].Y = arr.Circles[0].Y
	report = Verify(reg, arr, geom.DefaultTolerance())
	if report.OK || len(report.Violations) != 1 {
		t.Fatalf("expected one violation, got %v", report.Violations)
	}
	if v := report.Violations[0]; v.Kind != Overlap || v.I != 0 || v.J != 1 {
		t.Fatalf("unexpected violation %v", v)
	}
}

func TestSnapshotIndependence(t *testing.T) {
	arr := New(2)
	arr.Add(geom.Circle{X: 1, Y: 1, R: 1})
	snap := arr.Snapshot()
	arr.Circles[0].X = 99
	if snap.Circles[0].X == 99 {
		t.Fatal("snapshot aliased the live arrangement")
	}
}
