// Package place implements circle placement: given a bounded planar
// domain and a sequence of radii, it computes an arrangement in which
// every circle lies inside the domain and no two circles overlap. All
// geometric decisions go through a geom.Engine, and every randomized
// step draws from an explicitly seeded generator, so identical requests
// produce identical arrangements.
package place

import (
	"fmt"
	"math/rand/v2"

	"github.com/chazu/placement/pkg/arrange"
	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/spatial"
)

// Strategy selects how the engine searches for a feasible arrangement.
// The set is closed; dispatch is a single switch.
type Strategy int

const (
	// Greedy processes radii in order, sampling candidate centers and
	// accepting the first feasible one.
	Greedy Strategy = iota
	// Relax seeds centers on a regular lattice and pushes overlapping
	// neighbors apart until feasible or the iteration cap is reached.
	Relax
	// Restart generates full random layouts, applies local repair, and
	// keeps the best result across restarts.
	Restart
)

func (s Strategy) String() string {
	switch s {
	case Greedy:
		return "greedy"
	case Relax:
		return "relax"
	case Restart:
		return "restart"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy converts a strategy name to its Strategy value.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "greedy":
		return Greedy, nil
	case "relax":
		return Relax, nil
	case "restart":
		return Restart, nil
	}
	return 0, fmt.Errorf("unknown strategy %q, expected greedy, relax, or restart", name)
}

// Budget bounds the search so randomized strategies terminate
// deterministically instead of running unbounded.
type Budget struct {
	// MaxAttempts is the candidate-center retry cap per circle (greedy).
	MaxAttempts int
	// MaxIterations is the relaxation pass cap.
	MaxIterations int
	// MaxRestarts is the restart cap.
	MaxRestarts int
}

// Default budget values, applied field-wise where a request leaves a
// bound at zero.
const (
	DefaultMaxAttempts   = 1000
	DefaultMaxIterations = 200
	DefaultMaxRestarts   = 32
)

func (b Budget) withDefaults() Budget {
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = DefaultMaxAttempts
	}
	if b.MaxIterations <= 0 {
		b.MaxIterations = DefaultMaxIterations
	}
	if b.MaxRestarts <= 0 {
		b.MaxRestarts = DefaultMaxRestarts
	}
	return b
}

// Request describes one placement problem. Requests are values; the
// engine holds no state between calls, so repeated timed invocations are
// independent and comparable.
type Request struct {
	Domain   geom.Domain
	Radii    []float64
	Strategy Strategy
	Seed     uint64
	Budget   Budget

	// SkipUnplaced makes greedy drop a circle whose retry cap is
	// exhausted instead of failing the whole run.
	SkipUnplaced bool
	// Precision selects the tolerance epsilon; zero means the default.
	Precision int
	// Parallel runs restarts concurrently. The reduction to a single
	// best result is deterministic either way.
	Parallel bool
}

// Tolerance returns the tolerance implied by the request's precision.
func (r Request) Tolerance() geom.Tolerance {
	return geom.NewTolerance(r.Precision)
}

// Placer runs placement requests against one geometry engine.
type Placer struct {
	engine geom.Engine
}

// NewPlacer returns a placer backed by the given engine.
func NewPlacer(e geom.Engine) *Placer {
	return &Placer{engine: e}
}

// Place computes an arrangement for the request. On success the result
// has been re-verified against the feasibility checker; Place never
// returns an arrangement it has not itself verified. Failures are typed:
// *geom.GeometryError for malformed domains, *InfeasibleError when a
// radius cannot fit the domain at all, *NoSolutionError when the search
// budget is exhausted.
func (p *Placer) Place(req Request) (*arrange.Arrangement, error) {
	tol := req.Tolerance()
	budget := req.Budget.withDefaults()

	reg, err := geom.Build(p.engine, req.Domain)
	if err != nil {
		return nil, err
	}

	// Fail fast on radii that cannot fit irrespective of arrangement.
	inscribed, err := geom.InscribedRadius(p.engine, req.Domain)
	if err != nil {
		return nil, err
	}
	for i, r := range req.Radii {
		if r < 0 || r > inscribed+tol.Epsilon {
			return nil, &InfeasibleError{Index: i, Radius: r, Inscribed: inscribed}
		}
	}

	var arr *arrange.Arrangement
	switch req.Strategy {
	case Greedy:
		rng := rand.New(rand.NewPCG(req.Seed, seedStream))
		arr, err = p.greedy(reg, req.Radii, rng, budget, tol, req.SkipUnplaced)
	case Relax:
		rng := rand.New(rand.NewPCG(req.Seed, seedStream))
		arr, err = p.relax(reg, req.Radii, rng, budget, tol)
	case Restart:
		arr, err = p.restart(reg, req.Radii, req.Seed, budget, tol, req.Parallel)
	default:
		return nil, fmt.Errorf("place: %v: no such strategy", req.Strategy)
	}
	if err != nil {
		return nil, err
	}

	// The checker is the oracle; a strategy result that fails it is a
	// search failure, never a silently inconsistent success.
	report := arrange.Verify(reg, arr, tol)
	if !report.OK {
		return nil, &NoSolutionError{Strategy: req.Strategy, Report: report}
	}
	return arr.Snapshot(), nil
}

// seedStream is the fixed PCG stream constant. Restart attempts derive
// their own streams from it so attempt k is reproducible in isolation.
const seedStream = 0x9e3779b97f4a7c15

// overlapsAny reports whether c overlaps any placed circle, consulting
// the index candidate list and confirming with the exact predicate.
func overlapsAny(idx spatial.Index, a *arrange.Arrangement, c geom.Circle, tol geom.Tolerance) bool {
	for _, j := range idx.Candidates(c) {
		if geom.CirclesOverlap(a.Circles[j], c, tol) {
			return true
		}
	}
	return false
}
