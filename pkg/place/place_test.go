package place

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/chazu/placement/pkg/arrange"
	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/geom/sdfx"
)

func newTestPlacer() *Placer {
	return NewPlacer(sdfx.New())
}

// squareRequest is the worked example: four unit circles in a 10x10
// square, greedy, seed 42.
func squareRequest() Request {
	return Request{
		Domain:   geom.RectDomain(10, 10),
		Radii:    []float64{1, 1, 1, 1},
		Strategy: Greedy,
		Seed:     42,
	}
}

func TestPlaceGreedySquare(t *testing.T) {
	p := newTestPlacer()
	arr, err := p.Place(squareRequest())
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if arr.Len() != 4 {
		t.Fatalf("placed %d circles, want 4", arr.Len())
	}

	tol := geom.DefaultTolerance()
	for i, c := range arr.Circles {
		if c.X < 1-tol.Epsilon || c.X > 9+tol.Epsilon || c.Y < 1-tol.Epsilon || c.Y > 9+tol.Epsilon {
			t.Errorf("circle %d center (%g, %g) outside the inset square", i, c.X, c.Y)
		}
		for j := i + 1; j < arr.Len(); j++ {
			if d := geom.Dist(c, arr.Circles[j]); d < 2-2*tol.Epsilon {
				t.Errorf("circles %d and %d too close: center distance %g", i, j, d)
			}
		}
	}
}

func TestPlaceResultVerifies(t *testing.T) {
	// The engine must never contradict the checker, whatever the
	// strategy.
	p := newTestPlacer()
	eng := sdfx.New()

	for _, strat := range []Strategy{Greedy, Relax, Restart} {
		t.Run(strat.String(), func(t *testing.T) {
			req := squareRequest()
			req.Strategy = strat
			arr, err := p.Place(req)
			if err != nil {
				t.Fatalf("Place failed: %v", err)
			}

			reg, err := geom.Build(eng, req.Domain)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			report := arrange.Verify(reg, arr, req.Tolerance())
			if !report.OK {
				t.Fatalf("engine returned an arrangement the checker rejects: %v", report.Violations)
			}
		})
	}
}

func TestPlaceDeterminism(t *testing.T) {
	p := newTestPlacer()
	for _, strat := range []Strategy{Greedy, Relax, Restart} {
		t.Run(strat.String(), func(t *testing.T) {
			req := squareRequest()
			req.Strategy = strat

			first, err := p.Place(req)
			if err != nil {
				t.Fatalf("first Place failed: %v", err)
			}
			second, err := p.Place(req)
			if err != nil {
				t.Fatalf("second Place failed: %v", err)
			}
			if !reflect.DeepEqual(first.Circles, second.Circles) {
				t.Fatalf("same request produced different arrangements:\n%v\n%v", first.Circles, second.Circles)
			}
		})
	}
}

func TestPlaceSeedChangesResult(t *testing.T) {
	p := newTestPlacer()
	req := squareRequest()
	a, err := p.Place(req)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	req.Seed = 43
	b, err := p.Place(req)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if reflect.DeepEqual(a.Circles, b.Circles) {
		t.Fatal("different seeds produced identical greedy arrangements")
	}
}

func TestPlaceInfeasibleInput(t *testing.T) {
	p := newTestPlacer()

	tests := []struct {
		name   string
		domain geom.Domain
		radii  []float64
	}{
		{"radius exceeds disk", geom.DiskDomain(1), []float64{2}},
		{"radius exceeds rect inscribed", geom.RectDomain(10, 2), []float64{1.5}},
		{"negative radius", geom.RectDomain(10, 10), []float64{-1}},
		{"one bad among good", geom.RectDomain(10, 10), []float64{1, 1, 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Place(Request{Domain: tt.domain, Radii: tt.radii, Strategy: Greedy})
			var infeasible *InfeasibleError
			if !errors.As(err, &infeasible) {
				t.Fatalf("expected *InfeasibleError, got %v", err)
			}
		})
	}
}

func TestPlaceGeometryError(t *testing.T) {
	p := newTestPlacer()
	_, err := p.Place(Request{
		Domain:   geom.PolygonDomain([]geom.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}),
		Radii:    []float64{0.1},
		Strategy: Greedy,
	})
	var gerr *geom.GeometryError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *geom.GeometryError, got %v", err)
	}
}

func TestPlaceNearInscribedPolygon(t *testing.T) {
	// A radius just under the domain's true inscribed radius (2.9289
	// for this triangle) must pass the fail-fast check even though it
	// falls between distance-field samples. Search may still exhaust its
	// budget here; only the pre-check rejection is wrong.
	p := newTestPlacer()
	_, err := p.Place(Request{
		Domain:   geom.PolygonDomain([]geom.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}),
		Radii:    []float64{2.89},
		Strategy: Greedy,
	})
	var infeasible *InfeasibleError
	if errors.As(err, &infeasible) {
		t.Fatalf("feasible radius rejected by the pre-check: %v", err)
	}
}

func TestPlaceRelaxZeroRadii(t *testing.T) {
	// Degenerate all-zero radii must not blow up the seeding lattice.
	p := newTestPlacer()
	arr, err := p.Place(Request{
		Domain:   geom.RectDomain(10, 10),
		Radii:    make([]float64, 20),
		Strategy: Relax,
	})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if arr.Len() != 20 {
		t.Fatalf("placed %d circles, want 20", arr.Len())
	}
}

func TestPlaceTightPairNeverOverlaps(t *testing.T) {
	// A domain barely large enough for two unit circles: either a
	// feasible near-tangent placement or a typed NoSolutionError, never
	// a silently overlapping result.
	p := newTestPlacer()
	req := Request{
		Domain:   geom.RectDomain(4.2, 2.1),
		Radii:    []float64{1, 1},
		Strategy: Greedy,
		Seed:     7,
	}
	arr, err := p.Place(req)
	if err != nil {
		var noSolution *NoSolutionError
		if !errors.As(err, &noSolution) {
			t.Fatalf("expected *NoSolutionError, got %v", err)
		}
		return
	}
	tol := req.Tolerance()
	if d := geom.Dist(arr.Circles[0], arr.Circles[1]); d < 2-2*tol.Epsilon {
		t.Fatalf("overlapping pair returned: center distance %g", d)
	}
}

func TestPlaceEmptyRadii(t *testing.T) {
	p := newTestPlacer()
	arr, err := p.Place(Request{Domain: geom.RectDomain(10, 10), Strategy: Greedy})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if arr.Len() != 0 {
		t.Fatalf("expected empty arrangement, got %d circles", arr.Len())
	}
}

func TestPlaceSkipUnplaced(t *testing.T) {
	// Ask for far more unit circles than the domain can hold. With
	// SkipUnplaced the run succeeds with however many fit.
	p := newTestPlacer()
	req := Request{
		Domain:       geom.RectDomain(6, 6),
		Radii:        make([]float64, 20),
		Strategy:     Greedy,
		Seed:         1,
		SkipUnplaced: true,
		Budget:       Budget{MaxAttempts: 200},
	}
	for i := range req.Radii {
		req.Radii[i] = 1
	}

	arr, err := p.Place(req)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if arr.Len() == 0 || arr.Len() >= 20 {
		t.Fatalf("placed %d circles, want some and fewer than 20", arr.Len())
	}
}

func TestPlaceRelaxDisk(t *testing.T) {
	p := newTestPlacer()
	radii := make([]float64, 7)
	for i := range radii {
		radii[i] = 0.2
	}
	arr, err := p.Place(Request{
		Domain:   geom.DiskDomain(1),
		Radii:    radii,
		Strategy: Relax,
		Seed:     3,
	})
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if arr.Len() != 7 {
		t.Fatalf("placed %d circles, want 7", arr.Len())
	}
}

func TestPlaceRestartParallelMatchesSequential(t *testing.T) {
	p := newTestPlacer()
	req := Request{
		Domain:   geom.RectDomain(12, 12),
		Radii:    []float64{1, 1, 1, 1, 1},
		Strategy: Restart,
		Seed:     5,
	}

	seq, err := p.Place(req)
	if err != nil {
		t.Fatalf("sequential Place failed: %v", err)
	}

	req.Parallel = true
	par, err := p.Place(req)
	if err != nil {
		t.Fatalf("parallel Place failed: %v", err)
	}

	if !reflect.DeepEqual(seq.Circles, par.Circles) {
		t.Fatalf("parallel and sequential restarts diverged:\n%v\n%v", seq.Circles, par.Circles)
	}
}

func TestMaxFeasibleScale(t *testing.T) {
	p := newTestPlacer()
	req := Request{
		Domain:   geom.RectDomain(10, 10),
		Radii:    []float64{1, 1},
		Strategy: Greedy,
		Seed:     42,
	}

	scale, arr, err := p.MaxFeasibleScale(req, 1, 6)
	if err != nil {
		t.Fatalf("MaxFeasibleScale failed: %v", err)
	}
	if scale < 1 || scale > 3.5 {
		t.Fatalf("scale = %g, want within [1, 3.5]", scale)
	}
	if arr == nil || arr.Len() != 2 {
		t.Fatalf("expected a two-circle arrangement at the best scale")
	}
	// The returned arrangement really is at the returned scale.
	if math.Abs(arr.Circles[0].R-scale) > 1e-9 {
		t.Fatalf("arrangement radius %g does not match scale %g", arr.Circles[0].R, scale)
	}
}

func TestMaxFeasibleScaleInfeasibleLow(t *testing.T) {
	p := newTestPlacer()
	req := Request{
		Domain:   geom.DiskDomain(1),
		Radii:    []float64{1},
		Strategy: Greedy,
	}
	// Even the lower end exceeds the inscribed radius.
	_, _, err := p.MaxFeasibleScale(req, 2, 4)
	var noSolution *NoSolutionError
	if !errors.As(err, &noSolution) {
		t.Fatalf("expected *NoSolutionError, got %v", err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"greedy", Greedy, false},
		{"relax", Relax, false},
		{"restart", Restart, false},
		{"simulated-annealing", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStrategy(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStrategy(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestBudgetDefaults(t *testing.T) {
	b := Budget{}.withDefaults()
	if b.MaxAttempts != DefaultMaxAttempts || b.MaxIterations != DefaultMaxIterations || b.MaxRestarts != DefaultMaxRestarts {
		t.Fatalf("unexpected defaults: %+v", b)
	}

	b = Budget{MaxAttempts: 5}.withDefaults()
	if b.MaxAttempts != 5 {
		t.Fatalf("explicit MaxAttempts overridden: %+v", b)
	}
	if b.MaxIterations != DefaultMaxIterations {
		t.Fatalf("unset field not defaulted: %+v", b)
	}
}
