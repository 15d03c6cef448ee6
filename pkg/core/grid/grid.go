// Package grid implements the discretized occupancy model for layout
// generation.
//
// The lot is divided into square cells of a configurable size (1–2 ft).
// Each cell is either free or owned by exactly one named room. All room
// geometry in the core is expressed in integer cell coordinates ([Rect]);
// conversion to and from feet happens only at the package boundary.
package grid

import "math"

// DefaultCellFt is the default cell edge length in feet.
const DefaultCellFt = 1.0

// DefaultAspect is the preferred width/height ratio when splitting a target
// area into a rectangle.
const DefaultAspect = 1.2

// Grid tracks which room owns each cell of the discretized lot.
// The zero value is unusable; construct with [New].
//
// A Grid belongs to a single generation run. Concurrent requests each build
// their own grid, so no locking is needed.
type Grid struct {
	Cols   int
	Rows   int
	CellFt float64

	cells []string // row-major; "" means free
}

// New creates a grid covering a widthFt × heightFt lot at the given cell
// size. A cellFt of zero or less falls back to [DefaultCellFt].
func New(widthFt, heightFt, cellFt float64) *Grid {
	if cellFt <= 0 {
		cellFt = DefaultCellFt
	}
	cols := int(widthFt / cellFt)
	rows := int(heightFt / cellFt)
	return &Grid{
		Cols:   cols,
		Rows:   rows,
		CellFt: cellFt,
		cells:  make([]string, cols*rows),
	}
}

// InBounds reports whether the rectangle lies entirely inside the grid.
func (g *Grid) InBounds(r Rect) bool {
	return r.X >= 0 && r.Y >= 0 && r.W > 0 && r.H > 0 &&
		r.X+r.W <= g.Cols && r.Y+r.H <= g.Rows
}

// IsFree reports whether every cell of the rectangle is in bounds and
// unowned.
func (g *Grid) IsFree(r Rect) bool {
	if !g.InBounds(r) {
		return false
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		row := y * g.Cols
		for x := r.X; x < r.X+r.W; x++ {
			if g.cells[row+x] != "" {
				return false
			}
		}
	}
	return true
}

// Occupy marks every cell of the rectangle as owned by the named room.
// Callers must check [Grid.IsFree] first; Occupy overwrites blindly.
func (g *Grid) Occupy(r Rect, owner string) {
	for y := r.Y; y < r.Y+r.H; y++ {
		row := y * g.Cols
		for x := r.X; x < r.X+r.W; x++ {
			g.cells[row+x] = owner
		}
	}
}

// Release frees every cell of the rectangle that is owned by the named
// room. Cells owned by other rooms are left alone, which guards against a
// stale rectangle double-freeing a neighbour.
func (g *Grid) Release(r Rect, owner string) {
	for y := max(0, r.Y); y < min(g.Rows, r.Y+r.H); y++ {
		row := y * g.Cols
		for x := max(0, r.X); x < min(g.Cols, r.X+r.W); x++ {
			if g.cells[row+x] == owner {
				g.cells[row+x] = ""
			}
		}
	}
}

// Owner returns the name of the room owning the cell, or "" when the cell
// is free or out of bounds.
func (g *Grid) Owner(x, y int) string {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return ""
	}
	return g.cells[y*g.Cols+x]
}

// OccupiedCells returns the number of owned cells.
func (g *Grid) OccupiedCells() int {
	n := 0
	for _, c := range g.cells {
		if c != "" {
			n++
		}
	}
	return n
}

// =============================================================================
// Feet ↔ Cells
// =============================================================================

// FeetToCells converts a length in feet to a cell count, never below 1.
func FeetToCells(ft, cellFt float64) int {
	if cellFt <= 0 {
		cellFt = DefaultCellFt
	}
	return max(1, int(math.Round(ft/cellFt)))
}

// SplitArea converts a target area in ft² into a w × h cell footprint using
// the preferred aspect ratio: height = round(sqrt(cells/aspect)),
// width = round(cells/height), each clamped to at least one cell.
func SplitArea(areaFt2, cellFt, aspect float64) (w, h int) {
	if cellFt <= 0 {
		cellFt = DefaultCellFt
	}
	if aspect <= 0 {
		aspect = DefaultAspect
	}
	cells := max(1, int(math.Round(areaFt2/(cellFt*cellFt))))
	h = max(1, int(math.Round(math.Sqrt(float64(cells)/aspect))))
	w = max(1, int(math.Round(float64(cells)/float64(h))))
	return w, h
}
