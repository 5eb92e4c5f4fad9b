// Package bench exposes the benchmark entry points: pure functions the
// benchmark executable calls with fixed domains, radii, and seeds, so
// repeated timed invocations are independent and comparable. Nothing
// here caches between calls.
package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/geom/sdfx"
	"github.com/chazu/placement/pkg/place"
)

// Spec is one benchmark case: a fixed request run a fixed number of
// times.
type Spec struct {
	Name    string
	Request place.Request
	Repeat  int
}

// Result reports the outcome of one benchmark case.
type Result struct {
	Name    string
	Runs    int
	Placed  int           // circles placed per run
	Elapsed time.Duration // total wall time over all runs
	PerRun  time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("%s: %d runs, %d circles, %s/run", r.Name, r.Runs, r.Placed, r.PerRun)
}

// benchSeed fixes the seed for every built-in benchmark case.
const benchSeed = 42

// SquareGreedy is n unit circles placed greedily in a square sized for
// roughly 20% packing density, which greedy handles without retries
// dominating.
func SquareGreedy(n int) Spec {
	side := math.Ceil(4 * math.Sqrt(float64(n)))
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = 1
	}
	return Spec{
		Name: fmt.Sprintf("square-greedy-%d", n),
		Request: place.Request{
			Domain:   geom.RectDomain(side, side),
			Radii:    radii,
			Strategy: place.Greedy,
			Seed:     benchSeed,
		},
		Repeat: 1,
	}
}

// DiskRelax is n small circles relaxed inside the unit disk, the
// original research harness's domain shape.
func DiskRelax(n int) Spec {
	r := 0.5 / math.Sqrt(float64(n)+1)
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = r
	}
	return Spec{
		Name: fmt.Sprintf("disk-relax-%d", n),
		Request: place.Request{
			Domain:   geom.DiskDomain(1),
			Radii:    radii,
			Strategy: place.Relax,
			Seed:     benchSeed,
		},
		Repeat: 1,
	}
}

// Run executes a benchmark case against a fresh sdfx-backed placer and
// times the placement calls. Every run must succeed; a failed run fails
// the whole case.
func Run(spec Spec) (Result, error) {
	placer := place.NewPlacer(sdfx.New())
	repeat := spec.Repeat
	if repeat <= 0 {
		repeat = 1
	}

	placed := 0
	start := time.Now()
	for i := 0; i < repeat; i++ {
		arr, err := placer.Place(spec.Request)
		if err != nil {
			return Result{}, fmt.Errorf("bench %s: run %d: %w", spec.Name, i, err)
		}
		placed = arr.Len()
	}
	elapsed := time.Since(start)

	return Result{
		Name:    spec.Name,
		Runs:    repeat,
		Placed:  placed,
		Elapsed: elapsed,
		PerRun:  elapsed / time.Duration(repeat),
	}, nil
}
