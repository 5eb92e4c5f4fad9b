package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/chazu/placement/pkg/geom"
)

// rtreeItem associates a bounding rectangle with an arrangement position.
type rtreeItem struct {
	idx  int
	rect rtreego.Rect
}

func (it *rtreeItem) Bounds() rtreego.Rect {
	return it.rect
}

// RTree is an R-tree backed index. It has no dependence on a global cell
// size, which makes it the better fit when radii span orders of
// magnitude and any fixed grid cell would either shatter large circles
// across many cells or lump small ones together.
type RTree struct {
	tree  *rtreego.Rtree
	items map[int]*rtreeItem
}

// NewRTree returns an empty R-tree index.
func NewRTree() *RTree {
	return &RTree{
		tree:  rtreego.NewTree(2, 2, 8),
		items: make(map[int]*rtreeItem),
	}
}

// circleRect converts a circle's bounding box to an rtreego rectangle.
// Rectangle lengths must be strictly positive, so zero-radius circles
// get a vanishingly small box.
func circleRect(c geom.Circle) rtreego.Rect {
	r := c.R
	if r <= 0 {
		r = 1e-12
	}
	rect, err := rtreego.NewRect(rtreego.Point{c.X - r, c.Y - r}, []float64{2 * r, 2 * r})
	if err != nil {
		// Unreachable: dimensions and lengths are always valid here.
		panic(err)
	}
	return rect
}

func (t *RTree) Insert(c geom.Circle, i int) {
	it := &rtreeItem{idx: i, rect: circleRect(c)}
	t.items[i] = it
	t.tree.Insert(it)
}

func (t *RTree) Remove(i int) {
	it, ok := t.items[i]
	if !ok {
		return
	}
	delete(t.items, i)
	t.tree.Delete(it)
}

func (t *RTree) Candidates(c geom.Circle) []int {
	hits := t.tree.SearchIntersect(circleRect(c))
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*rtreeItem).idx)
	}
	sort.Ints(out)
	return out
}

func (t *RTree) Len() int {
	return len(t.items)
}
