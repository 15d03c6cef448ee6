package grid

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	g := New(40, 30, 1.0)
	if g.Cols != 40 || g.Rows != 30 {
		t.Errorf("grid = %dx%d, want 40x30", g.Cols, g.Rows)
	}

	// 2 ft cells halve the resolution
	g = New(40, 30, 2.0)
	if g.Cols != 20 || g.Rows != 15 {
		t.Errorf("grid = %dx%d, want 20x15", g.Cols, g.Rows)
	}

	// Non-positive cell size falls back to the default
	g = New(40, 30, 0)
	if g.CellFt != DefaultCellFt {
		t.Errorf("CellFt = %v, want %v", g.CellFt, DefaultCellFt)
	}
}

func TestOccupancy(t *testing.T) {
	g := New(20, 20, 1.0)
	r := Rect{X: 2, Y: 3, W: 5, H: 4}

	if !g.IsFree(r) {
		t.Fatal("fresh grid should be free")
	}

	g.Occupy(r, "kitchen")
	if g.IsFree(r) {
		t.Error("occupied rect should not be free")
	}
	if got := g.Owner(3, 4); got != "kitchen" {
		t.Errorf("Owner(3,4) = %q, want kitchen", got)
	}
	if got := g.Owner(0, 0); got != "" {
		t.Errorf("Owner(0,0) = %q, want empty", got)
	}
	if got := g.OccupiedCells(); got != 20 {
		t.Errorf("OccupiedCells = %d, want 20", got)
	}

	// Overlapping rect is blocked, adjacent rect is not
	if g.IsFree(Rect{X: 6, Y: 3, W: 3, H: 3}) {
		t.Error("overlapping rect should be blocked")
	}
	if !g.IsFree(Rect{X: 7, Y: 3, W: 3, H: 3}) {
		t.Error("flush rect should be free")
	}
}

func TestRelease(t *testing.T) {
	g := New(20, 20, 1.0)
	a := Rect{X: 0, Y: 0, W: 4, H: 4}
	b := Rect{X: 4, Y: 0, W: 4, H: 4}
	g.Occupy(a, "living")
	g.Occupy(b, "kitchen")

	// Releasing with a stale rect covering both must only free the owner
	g.Release(Rect{X: 0, Y: 0, W: 8, H: 4}, "living")
	if g.Owner(1, 1) != "" {
		t.Error("living cells should be freed")
	}
	if g.Owner(5, 1) != "kitchen" {
		t.Error("kitchen cells must survive a foreign release")
	}
}

func TestIsFreeOutOfBounds(t *testing.T) {
	g := New(10, 10, 1.0)
	tests := []Rect{
		{X: -1, Y: 0, W: 2, H: 2},
		{X: 9, Y: 9, W: 2, H: 2},
		{X: 0, Y: 0, W: 0, H: 2},
		{X: 0, Y: 0, W: 11, H: 1},
	}
	for _, r := range tests {
		if g.IsFree(r) {
			t.Errorf("IsFree(%+v) = true, want false", r)
		}
	}
}

func TestFeetToCells(t *testing.T) {
	if got := FeetToCells(12, 1.0); got != 12 {
		t.Errorf("FeetToCells(12, 1) = %d, want 12", got)
	}
	if got := FeetToCells(12, 2.0); got != 6 {
		t.Errorf("FeetToCells(12, 2) = %d, want 6", got)
	}
	// Never below one cell
	if got := FeetToCells(0.1, 2.0); got != 1 {
		t.Errorf("FeetToCells(0.1, 2) = %d, want 1", got)
	}
}

func TestSplitArea(t *testing.T) {
	w, h := SplitArea(120, 1.0, 1.2)
	if w < 1 || h < 1 {
		t.Fatalf("SplitArea produced degenerate %dx%d", w, h)
	}
	// Footprint should approximate the requested area
	if area := w * h; math.Abs(float64(area)-120) > 25 {
		t.Errorf("SplitArea(120) area = %d, want ~120", area)
	}
	// Wider than tall at aspect > 1
	if w < h {
		t.Errorf("SplitArea aspect 1.2 gave %dx%d, want w >= h", w, h)
	}

	// Tiny areas clamp to one cell
	w, h = SplitArea(0.1, 1.0, 1.2)
	if w != 1 || h != 1 {
		t.Errorf("SplitArea(0.1) = %dx%d, want 1x1", w, h)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}

	if !a.Overlaps(Rect{X: 2, Y: 2, W: 4, H: 4}) {
		t.Error("intersecting rects should overlap")
	}
	// Flush rects share an edge but do not overlap
	if a.Overlaps(Rect{X: 4, Y: 0, W: 4, H: 4}) {
		t.Error("flush rects should not overlap")
	}
	if a.Overlaps(Rect{X: 10, Y: 10, W: 2, H: 2}) {
		t.Error("disjoint rects should not overlap")
	}
}

func TestRectIntersectionArea(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}
	if got := a.IntersectionArea(Rect{X: 2, Y: 2, W: 4, H: 4}); got != 4 {
		t.Errorf("IntersectionArea = %d, want 4", got)
	}
	if got := a.IntersectionArea(Rect{X: 4, Y: 0, W: 4, H: 4}); got != 0 {
		t.Errorf("flush IntersectionArea = %d, want 0", got)
	}
}

func TestRectSharedBoundary(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 4, H: 4}

	// Flush on the east wall, full height shared
	if got := a.SharedBoundary(Rect{X: 4, Y: 0, W: 3, H: 4}); got != 4 {
		t.Errorf("east SharedBoundary = %d, want 4", got)
	}
	// Flush below with partial overlap
	if got := a.SharedBoundary(Rect{X: 2, Y: 4, W: 4, H: 2}); got != 2 {
		t.Errorf("south SharedBoundary = %d, want 2", got)
	}
	// Corner contact shares no wall
	if got := a.SharedBoundary(Rect{X: 4, Y: 4, W: 2, H: 2}); got != 0 {
		t.Errorf("corner SharedBoundary = %d, want 0", got)
	}
	// Overlapping rects share no wall
	if got := a.SharedBoundary(Rect{X: 2, Y: 2, W: 4, H: 4}); got != 0 {
		t.Errorf("overlap SharedBoundary = %d, want 0", got)
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 2, H: 2}
	b := Rect{X: 4, Y: 4, W: 2, H: 2}
	u := a.Union(b)
	want := Rect{X: 0, Y: 0, W: 6, H: 6}
	if u != want {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestRectManhattanDistance(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 2, H: 2} // center (1,1)
	b := Rect{X: 4, Y: 2, W: 2, H: 2} // center (5,3)
	if got := a.ManhattanDistance(b); got != 6 {
		t.Errorf("ManhattanDistance = %v, want 6", got)
	}
}

func TestRectRotated(t *testing.T) {
	r := Rect{X: 1, Y: 2, W: 5, H: 3}
	got := r.Rotated()
	if got.W != 3 || got.H != 5 || got.X != 1 || got.Y != 2 {
		t.Errorf("Rotated = %+v", got)
	}
}
