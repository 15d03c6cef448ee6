// Package validate checks finished (or partially finished) layouts against
// the structural invariants: bounds and overlap, adjacency rules, entrance
// connectivity, and bathroom privacy.
//
// Each check is independent and produces human-readable violation strings;
// an empty result means the layout is valid. The checks run on the same
// integer cell coordinates as the placement engine.
package validate

import (
	"fmt"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/core/place"
	"github.com/matzehuels/roomforge/pkg/program"
)

// DefaultPrivacyFt is the minimum Manhattan distance in feet between a
// bathroom center and any entrance center.
const DefaultPrivacyFt = 12.0

// Validator runs the invariant checks over a placed room set.
type Validator struct {
	Grid      *grid.Grid
	PrivacyFt float64 // bathroom-to-entrance threshold, in feet

	// Rules are the adjacency rules to enforce; nil skips the check.
	Rules []program.AdjacencyRule

	// DoorwayCells is the minimum shared wall for a usable doorway.
	// Non-positive falls back to the default doorway width.
	DoorwayCells int
}

// New creates a validator for the given grid. A non-positive privacy
// threshold falls back to [DefaultPrivacyFt].
func New(g *grid.Grid, privacyFt float64) *Validator {
	if privacyFt <= 0 {
		privacyFt = DefaultPrivacyFt
	}
	return &Validator{Grid: g, PrivacyFt: privacyFt}
}

// Check runs all checks in order and returns the combined ordered violation
// list. Empty means valid.
func (v *Validator) Check(rooms []*place.Room) []string {
	var violations []string
	violations = append(violations, v.CheckBounds(rooms)...)
	violations = append(violations, v.CheckAdjacency(rooms)...)
	violations = append(violations, v.CheckConnectivity(rooms)...)
	violations = append(violations, v.CheckPrivacy(rooms)...)
	return violations
}

// CheckBounds verifies that every room lies inside the lot and that no two
// rooms overlap with positive area.
func (v *Validator) CheckBounds(rooms []*place.Room) []string {
	var out []string
	for _, r := range rooms {
		if !v.Grid.InBounds(r.Rect) {
			out = append(out, fmt.Sprintf("%s extends outside the lot", r.Name()))
		}
	}
	for i, a := range rooms {
		for _, b := range rooms[i+1:] {
			if area := a.Rect.IntersectionArea(b.Rect); area > 0 {
				out = append(out, fmt.Sprintf("%s overlaps %s by %d cells", a.Name(), b.Name(), area))
			}
		}
	}
	return out
}

// CheckAdjacency verifies the adjacency rules against the placed geometry:
// a mustBeAdjacent room needs a doorway-wide shared wall with some partner,
// a mustNotBeAdjacent pair may not touch at all. Rules whose partner type
// has no placed rooms are skipped.
func (v *Validator) CheckAdjacency(rooms []*place.Room) []string {
	doorway := v.DoorwayCells
	if doorway <= 0 {
		doorway = grid.FeetToCells(place.DefaultDoorwayFt, v.Grid.CellFt)
	}

	var out []string
	for _, rule := range v.Rules {
		for _, a := range roomsOfType(rooms, rule.TypeA) {
			partners := roomsOfType(rooms, rule.TypeB)
			if len(partners) == 0 {
				continue
			}
			switch rule.Kind {
			case program.MustBeAdjacent:
				best := 0
				for _, b := range partners {
					best = max(best, a.Rect.SharedBoundary(b.Rect))
				}
				if best < doorway {
					out = append(out, fmt.Sprintf(
						"%s must share a doorway-wide wall with a %s room", a.Name(), rule.TypeB))
				}
			case program.MustNotBeAdjacent:
				for _, b := range partners {
					if a.Rect.SharedBoundary(b.Rect) > 0 {
						out = append(out, fmt.Sprintf(
							"%s must not share a wall with %s", a.Name(), b.Name()))
					}
				}
			}
		}
	}
	return out
}

// CheckConnectivity flood-fills from the entrance cells, treating
// private-zone rooms as walls, and reports every public or service room the
// fill cannot reach.
func (v *Validator) CheckConnectivity(rooms []*place.Room) []string {
	entrances := roomsOfType(rooms, program.TypeEntrance)
	if len(entrances) == 0 {
		return []string{"layout has no entrance"}
	}

	private := map[string]bool{}
	for _, r := range rooms {
		if r.Zone == program.ZonePrivate {
			private[r.Name()] = true
		}
	}

	visited := make([]bool, v.Grid.Cols*v.Grid.Rows)
	var queue []place.Point
	push := func(x, y int) {
		if x < 0 || y < 0 || x >= v.Grid.Cols || y >= v.Grid.Rows {
			return
		}
		idx := y*v.Grid.Cols + x
		if visited[idx] {
			return
		}
		if owner := v.Grid.Owner(x, y); owner != "" && private[owner] {
			return // private rooms act as walls
		}
		visited[idx] = true
		queue = append(queue, place.Point{X: x, Y: y})
	}

	for _, e := range entrances {
		for y := e.Rect.Y; y < e.Rect.Y+e.Rect.H; y++ {
			for x := e.Rect.X; x < e.Rect.X+e.Rect.W; x++ {
				push(x, y)
			}
		}
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	var out []string
	for _, r := range rooms {
		if r.Zone == program.ZonePrivate {
			continue
		}
		if !anyVisited(visited, v.Grid.Cols, r.Rect) {
			out = append(out, fmt.Sprintf("%s is not reachable from the entrance", r.Name()))
		}
	}
	return out
}

// CheckPrivacy verifies the minimum Manhattan distance between every
// bathroom center and every entrance center.
func (v *Validator) CheckPrivacy(rooms []*place.Room) []string {
	entrances := roomsOfType(rooms, program.TypeEntrance)
	bathrooms := roomsOfType(rooms, program.TypeBathroom)
	thresholdCells := v.PrivacyFt / v.Grid.CellFt

	var out []string
	for _, b := range bathrooms {
		for _, e := range entrances {
			if d := b.Rect.ManhattanDistance(e.Rect); d < thresholdCells {
				out = append(out, fmt.Sprintf(
					"%s is %.1f ft from %s, below the %.0f ft privacy threshold",
					b.Name(), d*v.Grid.CellFt, e.Name(), v.PrivacyFt))
			}
		}
	}
	return out
}

func anyVisited(visited []bool, cols int, r grid.Rect) bool {
	rows := len(visited) / cols
	for y := max(0, r.Y); y < min(rows, r.Y+r.H); y++ {
		for x := max(0, r.X); x < min(cols, r.X+r.W); x++ {
			if visited[y*cols+x] {
				return true
			}
		}
	}
	return false
}

func roomsOfType(rooms []*place.Room, t program.RoomType) []*place.Room {
	var out []*place.Room
	for _, r := range rooms {
		if r.Type() == t {
			out = append(out, r)
		}
	}
	return out
}
