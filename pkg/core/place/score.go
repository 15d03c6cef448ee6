package place

import (
	"math"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/program"
)

// Scorer ranks candidate placements with a weighted multi-factor objective.
//
// The terms, in order of default weight:
//
//   - Adjacency: hard rejection of mustNotBeAdjacent contact, reward for a
//     mustBeAdjacent wall at or above the doorway width. A missed required
//     adjacency contributes nothing; the repair loop relocates the room.
//   - Proximity: negative distance to the anchors' centroid (tight packing).
//   - Environmental: bonus for living/master rooms on an exterior wall.
//   - Rectangularity: placed area over union bounding-box area, which pulls
//     the footprint toward a solid rectangle.
//   - Proportion: penalty for aspect ratios beyond 2:1.
type Scorer struct {
	Grid         *grid.Grid
	Weights      Weights
	Rules        []program.AdjacencyRule
	DoorwayCells int // minimum shared wall for a usable doorway
}

// Score computes the scalar score of placing spec at r with the given
// already-placed rooms and anchors. Returns [ScoreInfeasible] when a hard
// adjacency constraint is violated.
func (s *Scorer) Score(spec program.RoomSpec, r grid.Rect, placed, anchors []*Room) float64 {
	adj, feasible := s.scoreAdjacency(spec, r, placed)
	if !feasible {
		return ScoreInfeasible
	}

	score := adj * s.Weights.Adjacency
	score += s.scoreProximity(r, anchors) * s.Weights.Proximity
	score += s.scoreEnvironmental(spec, r) * s.Weights.Environmental
	score += s.scoreRectangularity(r, placed) * s.Weights.Rectangularity
	score += s.scoreProportion(r) * s.Weights.Proportion
	return score
}

// scoreAdjacency evaluates the rule terms. The boolean is false only when
// the candidate touches a forbidden neighbour; a missed required adjacency
// simply earns no bonus, so the room still places and repair can move it.
func (s *Scorer) scoreAdjacency(spec program.RoomSpec, r grid.Rect, placed []*Room) (float64, bool) {
	score := 0.0
	for _, rule := range s.Rules {
		other, ok := rule.Matches(spec.Type)
		if !ok {
			continue
		}
		neighbours := roomsOfType(placed, other)

		switch rule.Kind {
		case program.MustNotBeAdjacent:
			for _, n := range neighbours {
				if r.SharedBoundary(n.Rect) > 0 {
					return 0, false
				}
			}
		case program.MustBeAdjacent:
			for _, n := range neighbours {
				if r.SharedBoundary(n.Rect) >= s.DoorwayCells {
					score += 100
					break
				}
			}
		}
	}
	return score, true
}

// scoreProximity returns the negative Euclidean distance from the candidate
// center to the anchors' centroid, doubled to punish sprawl.
func (s *Scorer) scoreProximity(r grid.Rect, anchors []*Room) float64 {
	if len(anchors) == 0 {
		return 0
	}
	var ax, ay float64
	for _, a := range anchors {
		cx, cy := a.Rect.Center()
		ax += cx
		ay += cy
	}
	ax /= float64(len(anchors))
	ay /= float64(len(anchors))

	cx, cy := r.Center()
	return -2 * math.Hypot(cx-ax, cy-ay)
}

// scoreEnvironmental rewards rooms that benefit from windows (living,
// master) for touching an exterior lot boundary.
func (s *Scorer) scoreEnvironmental(spec program.RoomSpec, r grid.Rect) float64 {
	if spec.Type != program.TypeLiving && spec.Type != program.TypeMaster {
		return 0
	}
	if r.X == 0 || r.Y == 0 || r.X+r.W == s.Grid.Cols || r.Y+r.H == s.Grid.Rows {
		return 1.5 * float64(r.W)
	}
	return 0
}

// scoreRectangularity returns the ratio of total placed area (including the
// candidate) to the area of the union bounding box. A value near 1 means
// the footprint is a solid rectangle.
func (s *Scorer) scoreRectangularity(r grid.Rect, placed []*Room) float64 {
	union := r
	area := r.Area()
	for _, p := range placed {
		union = union.Union(p.Rect)
		area += p.Rect.Area()
	}
	if union.Area() == 0 {
		return 0
	}
	return float64(area) / float64(union.Area())
}

// scoreProportion penalizes aspect ratios beyond 2:1 proportionally to the
// excess.
func (s *Scorer) scoreProportion(r grid.Rect) float64 {
	aspect := float64(max(r.W, r.H)) / float64(max(1, min(r.W, r.H)))
	if aspect <= 2.0 {
		return 0
	}
	return -10 * (aspect - 2.0)
}

func roomsOfType(rooms []*Room, t program.RoomType) []*Room {
	var out []*Room
	for _, r := range rooms {
		if r.Type() == t {
			out = append(out, r)
		}
	}
	return out
}
