package place

import (
	"fmt"
	"math"
	"testing"

	"github.com/chazu/placement/pkg/geom"
	"github.com/chazu/placement/pkg/geom/sdfx"
)

// unitSquareRequest builds a request for n unit circles in a square
// sized so the fill stays moderate as n grows.
func unitSquareRequest(n int, strat Strategy) Request {
	side := math.Ceil(4 * math.Sqrt(float64(n)))
	radii := make([]float64, n)
	for i := range radii {
		radii[i] = 1
	}
	return Request{
		Domain:   geom.RectDomain(side, side),
		Radii:    radii,
		Strategy: strat,
		Seed:     42,
	}
}

func BenchmarkPlace(b *testing.B) {
	for _, strat := range []Strategy{Greedy, Relax, Restart} {
		for _, n := range []int{16, 64, 256} {
			b.Run(fmt.Sprintf("%s/n=%d", strat, n), func(b *testing.B) {
				p := NewPlacer(sdfx.New())
				req := unitSquareRequest(n, strat)
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := p.Place(req); err != nil {
						b.Fatalf("Place failed: %v", err)
					}
				}
			})
		}
	}
}

func BenchmarkPlaceDisk(b *testing.B) {
	for _, n := range []int{16, 64, 256} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			radii := make([]float64, n)
			for i := range radii {
				radii[i] = 0.5 / math.Sqrt(float64(n+1))
			}
			p := NewPlacer(sdfx.New())
			req := Request{
				Domain:   geom.DiskDomain(1),
				Radii:    radii,
				Strategy: Greedy,
				Seed:     42,
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := p.Place(req); err != nil {
					b.Fatalf("Place failed: %v", err)
				}
			}
		})
	}
}
