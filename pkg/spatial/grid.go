package spatial

import (
	"math"
	"sort"

	"github.com/chazu/placement/pkg/geom"
)

// cellKey addresses one cell of the uniform grid.
type cellKey struct {
	cx, cy int
}

// Grid is a uniform hash grid over circle bounding boxes. With a cell
// side near twice the median radius, the expected candidate list length
// is a small constant, so incremental insert and remove are amortized
// O(1) and a full query touches O(1) cells per circle.
type Grid struct {
	cell    float64
	cells   map[cellKey][]int
	entries map[int]geom.Circle
}

// NewGrid returns an empty grid with the given cell side. Non-positive
// sides fall back to 1 so a degenerate radius set cannot divide by zero.
func NewGrid(cell float64) *Grid {
	if cell <= 0 {
		cell = 1
	}
	return &Grid{
		cell:    cell,
		cells:   make(map[cellKey][]int),
		entries: make(map[int]geom.Circle),
	}
}

// cellRange returns the inclusive cell coordinates covered by a bounding box.
func (g *Grid) cellRange(c geom.Circle) (x0, y0, x1, y1 int) {
	lo, hi := c.Bounds()
	x0 = int(math.Floor(lo.X / g.cell))
	y0 = int(math.Floor(lo.Y / g.cell))
	x1 = int(math.Floor(hi.X / g.cell))
	y1 = int(math.Floor(hi.Y / g.cell))
	return
}

func (g *Grid) Insert(c geom.Circle, i int) {
	g.entries[i] = c
	x0, y0, x1, y1 := g.cellRange(c)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := cellKey{cx, cy}
			g.cells[k] = append(g.cells[k], i)
		}
	}
}

func (g *Grid) Remove(i int) {
	c, ok := g.entries[i]
	if !ok {
		return
	}
	delete(g.entries, i)
	x0, y0, x1, y1 := g.cellRange(c)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := cellKey{cx, cy}
			ids := g.cells[k]
			for n, id := range ids {
				if id == i {
					g.cells[k] = append(ids[:n], ids[n+1:]...)
					break
				}
			}
			if len(g.cells[k]) == 0 {
				delete(g.cells, k)
			}
		}
	}
}

func (g *Grid) Candidates(c geom.Circle) []int {
	x0, y0, x1, y1 := g.cellRange(c)
	seen := make(map[int]bool)
	var out []int
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, i := range g.cells[cellKey{cx, cy}] {
				if seen[i] {
					continue
				}
				seen[i] = true
				if geom.BoxesOverlap(c, g.entries[i]) {
					out = append(out, i)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

func (g *Grid) Len() int {
	return len(g.entries)
}
