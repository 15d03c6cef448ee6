package repair

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/core/place"
	"github.com/matzehuels/roomforge/pkg/program"
)

// AnnealOptions tunes the simulated-annealing fallback.
type AnnealOptions struct {
	// MaxIterations caps the number of neighbour moves. Default: 20000.
	MaxIterations int

	// StartTemp is the initial temperature. Default: 100.
	StartTemp float64

	// MinTemp is the temperature floor that stops the run. Default: 0.01.
	MinTemp float64

	// Cooling is the multiplicative factor applied each iteration.
	// Default: 0.999.
	Cooling float64

	// ConstraintPenalty is the energy added per violated hard constraint
	// unit (overlapping cell, out-of-bounds room, broken adjacency rule).
	// Default: 1000.
	ConstraintPenalty float64
}

// infeasibleBase lifts states with hard violations above every feasible
// state's energy.
const infeasibleBase = 1e6

var defaultAnnealOpts = AnnealOptions{
	MaxIterations:     20000,
	StartTemp:         100.0,
	MinTemp:           0.01,
	Cooling:           0.999,
	ConstraintPenalty: 1000.0,
}

// annealState is one candidate layout: the rectangles of the movable rooms.
// Locked geometry never enters the state, so fixtures cannot drift.
type annealState struct {
	rects []grid.Rect
}

func (s annealState) clone() annealState {
	out := annealState{rects: make([]grid.Rect, len(s.rects))}
	copy(out.rects, s.rects)
	return out
}

// Anneal performs simulated annealing over the whole non-locked layout.
//
// Neighbour moves translate a room, grow or shrink it uniformly, or move a
// single boundary. Candidate states are evaluated with the placement
// scorer's soft terms plus a large penalty for overlap, out-of-bounds
// geometry, or adjacency-rule violations; worse states are accepted with
// probability exp(Δscore/T) while T cools by a fixed factor each iteration.
//
// The final best state is written back into the rooms and the grid. Pass
// nil opts for defaults. The run is reproducible for a fixed seed.
func Anneal(g *grid.Grid, rooms []*place.Room, scorer *place.Scorer, rules []program.AdjacencyRule, seed uint64, opts *AnnealOptions) {
	if opts == nil {
		opts = &defaultAnnealOpts
	}
	movable := withoutLocked(rooms)
	if len(movable) == 0 {
		return
	}
	fixed := lockedRooms(rooms)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	current := annealState{rects: make([]grid.Rect, len(movable))}
	for i, r := range movable {
		current.rects[i] = r.Rect
	}
	best := current.clone()

	eval := func(s annealState) float64 {
		return energy(g, s, movable, fixed, scorer, rules, opts.ConstraintPenalty)
	}
	currentE := eval(current)
	bestE := currentE

	temp := opts.StartTemp
	for i := 0; i < opts.MaxIterations && temp > opts.MinTemp; i++ {
		next := neighbour(current, movable, g, rng)
		nextE := eval(next)

		delta := nextE - currentE
		if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
			current, currentE = next, nextE
			if currentE < bestE {
				best, bestE = current.clone(), currentE
			}
		}
		temp *= opts.Cooling
	}

	applyState(g, best, movable)
}

// neighbour produces one mutated copy of the state: translate, scale, or
// move a single boundary of a random room.
func neighbour(s annealState, movable []*place.Room, g *grid.Grid, rng *rand.Rand) annealState {
	next := s.clone()
	i := rng.IntN(len(next.rects))
	r := next.rects[i]

	switch rng.IntN(3) {
	case 0: // translate
		r.X += rng.IntN(7) - 3
		r.Y += rng.IntN(7) - 3
	case 1: // uniform scale
		d := 1
		if rng.IntN(2) == 0 {
			d = -1
		}
		r.W += d
		r.H += d
	default: // move one boundary
		switch rng.IntN(4) {
		case 0:
			r.X--
			r.W++
		case 1:
			r.W--
		case 2:
			r.Y--
			r.H++
		case 3:
			r.H--
		}
	}

	minW, minH := minCells(movable[i].Type(), g.CellFt)
	r.W = max(minW, r.W)
	r.H = max(minH, r.H)
	r.X = min(max(0, r.X), g.Cols-r.W)
	r.Y = min(max(0, r.Y), g.Rows-r.H)

	next.rects[i] = r
	return next
}

// energy scores a state; lower is better. Hard constraints dominate: a
// state with any bounds, overlap, or rule violation scores above every
// feasible state, and the overlap penalty scales per overlapping cell so
// each cell of overlap removed is strictly downhill. The placement scorer's
// soft terms only rank feasible states.
func energy(g *grid.Grid, s annealState, movable, fixed []*place.Room, scorer *place.Scorer, rules []program.AdjacencyRule, penalty float64) float64 {
	all := make([]roomRect, 0, len(movable)+len(fixed))
	for i, r := range movable {
		all = append(all, roomRect{room: r, rect: s.rects[i]})
	}
	for _, r := range fixed {
		all = append(all, roomRect{room: r, rect: r.Rect})
	}

	hard := 0.0
	for i, a := range all {
		if !g.InBounds(a.rect) {
			hard += penalty
		}
		for _, b := range all[i+1:] {
			if area := a.rect.IntersectionArea(b.rect); area > 0 {
				hard += penalty * float64(area)
			}
		}
	}

	doorway := scorer.DoorwayCells
	for _, rule := range rules {
		for _, a := range all {
			if a.room.Type() != rule.TypeA {
				continue
			}
			var shared, count int
			for _, b := range all {
				if b.room != a.room && b.room.Type() == rule.TypeB {
					count++
					shared = max(shared, a.rect.SharedBoundary(b.rect))
				}
			}
			if count == 0 {
				continue
			}
			switch rule.Kind {
			case program.MustBeAdjacent:
				if shared < doorway {
					hard += penalty
				}
			case program.MustNotBeAdjacent:
				if shared > 0 {
					hard += penalty
				}
			}
		}
	}
	// The base keeps every infeasible state above every feasible one, no
	// matter how poor the feasible state's soft score is.
	if hard > 0 {
		return infeasibleBase + hard
	}

	soft := 0.0
	for i, r := range movable {
		others := make([]*place.Room, 0, len(all)-1)
		for j, o := range all {
			if j != i {
				others = append(others, &place.Room{Spec: o.room.Spec, Rect: o.rect, Zone: o.room.Zone})
			}
		}
		soft -= scorer.Score(r.Spec, s.rects[i], nil, others)
	}
	return soft
}

type roomRect struct {
	room *place.Room
	rect grid.Rect
}

// applyState writes the state back into the rooms and rebuilds their grid
// ownership.
func applyState(g *grid.Grid, s annealState, movable []*place.Room) {
	for _, r := range movable {
		g.Release(r.Rect, r.Name())
	}
	for i, r := range movable {
		r.Rect = s.rects[i]
		g.Occupy(r.Rect, r.Name())
	}
}

func lockedRooms(rooms []*place.Room) []*place.Room {
	var out []*place.Room
	for _, r := range rooms {
		if r.Locked {
			out = append(out, r)
		}
	}
	return out
}
