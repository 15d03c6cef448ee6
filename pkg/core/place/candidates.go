package place

import (
	"sort"

	"github.com/matzehuels/roomforge/pkg/core/grid"
)

// DefaultStrideCells is the scan stride of the full-grid fallback sweep.
const DefaultStrideCells = 4

// Point is a candidate top-left position in grid cells.
type Point struct {
	X, Y int
}

// Candidates returns every free top-left position for a w × h room.
//
// Positions flush against the four sides of each anchor's bounding box are
// enumerated first; those keep new rooms growing against the existing zone.
// If no anchor-adjacent position is free the whole grid is swept at the
// given stride instead.
//
// The result is sorted by (y, x) so the scan order is reproducible
// regardless of anchor iteration order.
func Candidates(g *grid.Grid, w, h int, anchors []*Room, stride int) []Point {
	if stride <= 0 {
		stride = DefaultStrideCells
	}

	seen := map[Point]struct{}{}
	for _, anchor := range anchors {
		if anchor == nil {
			continue
		}
		a := anchor.Rect
		// Positions along the north and south walls.
		for i := -w + 1; i < a.W; i++ {
			seen[Point{a.X + i, a.Y - h}] = struct{}{}
			seen[Point{a.X + i, a.Y + a.H}] = struct{}{}
		}
		// Positions along the west and east walls.
		for j := -h + 1; j < a.H; j++ {
			seen[Point{a.X - w, a.Y + j}] = struct{}{}
			seen[Point{a.X + a.W, a.Y + j}] = struct{}{}
		}
	}

	var valid []Point
	for p := range seen {
		if g.IsFree(grid.Rect{X: p.X, Y: p.Y, W: w, H: h}) {
			valid = append(valid, p)
		}
	}

	if len(valid) == 0 {
		for y := 0; y+h <= g.Rows; y += stride {
			for x := 0; x+w <= g.Cols; x += stride {
				if g.IsFree(grid.Rect{X: x, Y: y, W: w, H: h}) {
					valid = append(valid, Point{x, y})
				}
			}
		}
	}

	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Y != valid[j].Y {
			return valid[i].Y < valid[j].Y
		}
		return valid[i].X < valid[j].X
	})
	return valid
}
