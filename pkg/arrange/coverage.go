package arrange

import (
	"math"
	"sort"

	"github.com/chazu/placement/pkg/geom"
)

// span is a closed interval on a horizontal scanline.
type span struct {
	start, end float64
}

// chord returns the horizontal interval where the scanline at height y
// crosses the circle, and false if the scanline misses it.
func chord(c geom.Circle, y float64) (span, bool) {
	if math.Abs(y-c.Y) > c.R {
		return span{}, false
	}
	d := math.Sqrt(c.R*c.R - (y-c.Y)*(y-c.Y))
	return span{c.X - d, c.X + d}, true
}

// mergeSpans merges intervals into a minimal set of non-overlapping
// spans, sorted by start.
func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	merged := []span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.start <= last.end {
			if s.end > last.end {
				last.end = s.end
			}
		} else {
			merged = append(merged, s)
		}
	}
	return merged
}

// CoversDisk reports whether the circles jointly cover a disk centered
// at the origin. It sweeps horizontal scanlines at epsilon spacing and
// checks that on each line the union of circle chords contains the
// disk's chord. This is the coverage counterpart to Verify: packing
// wants circles apart, covering wants them to leave no gap.
func CoversDisk(a *Arrangement, disk geom.Circle, tol geom.Tolerance) bool {
	for y := disk.Y - disk.R; y < disk.Y+disk.R; y += tol.Epsilon {
		target, ok := chord(disk, y)
		if !ok {
			continue
		}
		var spans []span
		for _, c := range a.Circles {
			if s, ok := chord(c, y); ok {
				spans = append(spans, s)
			}
		}
		covered := false
		for _, s := range mergeSpans(spans) {
			if s.start <= target.start && s.end >= target.end {
				covered = true
				break
			}
		}
		if !covered {
			return false
		}
	}
	return true
}
