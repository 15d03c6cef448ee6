package grid

// Rect is an axis-aligned rectangle in integer grid cells.
// X,Y is the top-left corner; W,H must be positive for a valid room.
//
// All core geometry runs on integer cell coordinates. Feet exist only at
// the interface boundary, which sidesteps floating-point ambiguity at cell
// edges.
type Rect struct {
	X, Y, W, H int
}

// Area returns the cell count covered by the rectangle.
func (r Rect) Area() int { return r.W * r.H }

// Center returns the rectangle's center point in fractional cells.
func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Y) + float64(r.H)/2
}

// Overlaps reports whether the two rectangles have positive-area
// intersection. Rectangles that merely touch do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// IntersectionArea returns the area of the overlap between r and o in cells,
// zero when they are disjoint or only share an edge.
func (r Rect) IntersectionArea(o Rect) int {
	w := min(r.X+r.W, o.X+o.W) - max(r.X, o.X)
	h := min(r.Y+r.H, o.Y+o.H) - max(r.Y, o.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// SharedBoundary returns the length in cells of the wall the two rectangles
// share. The result is nonzero only when the rectangles are flush against
// each other: touching along an edge without overlapping.
func (r Rect) SharedBoundary(o Rect) int {
	xOverlap := min(r.X+r.W, o.X+o.W) - max(r.X, o.X)
	yOverlap := min(r.Y+r.H, o.Y+o.H) - max(r.Y, o.Y)

	touchesX := r.X+r.W == o.X || o.X+o.W == r.X
	touchesY := r.Y+r.H == o.Y || o.Y+o.H == r.Y

	if touchesY && xOverlap > 0 {
		return xOverlap
	}
	if touchesX && yOverlap > 0 {
		return yOverlap
	}
	return 0
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	x2 := max(r.X+r.W, o.X+o.W)
	y2 := max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x, Y: y, W: x2 - x, H: y2 - y}
}

// Rotated returns the rectangle with width and height swapped in place.
func (r Rect) Rotated() Rect {
	return Rect{X: r.X, Y: r.Y, W: r.H, H: r.W}
}

// ManhattanDistance returns the L1 distance between the centers of r and o
// in fractional cells.
func (r Rect) ManhattanDistance(o Rect) float64 {
	cx, cy := r.Center()
	ox, oy := o.Center()
	return abs(cx-ox) + abs(cy-oy)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
