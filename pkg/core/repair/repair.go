// Package repair fixes layouts that fail validation.
//
// Two modes are provided. [Repairer.Repair] is the bounded local loop: a
// deterministic ordered list of strategies (adjacency relocation, privacy
// relocation) tried first, with a seeded random nudge as last resort, hard
// capped at MaxPasses. [Anneal] is the global fallback: simulated annealing
// over the whole non-locked layout, trading determinism-per-strategy for
// potentially better global results while staying reproducible for a fixed
// seed.
//
// All randomness flows through an explicit seeded source so identical
// inputs and seeds produce identical layouts.
package repair

import (
	"io"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/core/place"
	"github.com/matzehuels/roomforge/pkg/core/validate"
	"github.com/matzehuels/roomforge/pkg/program"
)

// DefaultMaxPasses bounds the local repair loop.
const DefaultMaxPasses = 30

// nudgeRange is the maximum random offset in cells applied by the nudge
// strategy.
const nudgeRange = 2

// Repairer runs the bounded local repair loop.
type Repairer struct {
	Grid      *grid.Grid
	Scorer    *place.Scorer
	Validator *validate.Validator
	Rules     []program.AdjacencyRule
	MaxPasses int
	Logger    *log.Logger

	rng *rand.Rand
}

// NewRepairer creates a repairer seeded for reproducible nudges.
func NewRepairer(g *grid.Grid, scorer *place.Scorer, v *validate.Validator, rules []program.AdjacencyRule, seed uint64, logger *log.Logger) *Repairer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Repairer{
		Grid:      g,
		Scorer:    scorer,
		Validator: v,
		Rules:     rules,
		MaxPasses: DefaultMaxPasses,
		Logger:    logger,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Repair iterates until the layout validates or the pass budget runs out,
// returning the remaining violations. Each pass recomputes violations and
// applies the first applicable strategy: adjacency repair, privacy repair,
// then a random nudge.
func (rp *Repairer) Repair(rooms []*place.Room) []string {
	passes := rp.MaxPasses
	if passes <= 0 {
		passes = DefaultMaxPasses
	}

	violations := rp.Validator.Check(rooms)
	for pass := 0; pass < passes && len(violations) > 0; pass++ {
		changed := rp.repairAdjacency(rooms)
		if !changed {
			changed = rp.repairPrivacy(rooms, violations)
		}
		if !changed {
			changed = rp.randomNudge(rooms)
		}
		if !changed {
			break // no strategy can make progress
		}
		violations = rp.Validator.Check(rooms)
		rp.Logger.Debug("repair pass", "pass", pass+1, "violations", len(violations))
	}
	return violations
}

// =============================================================================
// Strategy 1: Adjacency Repair
// =============================================================================

// repairAdjacency relocates a room that breaks a mustBeAdjacent rule to a
// position flush against its required neighbour, trying both orientations
// and shrinking toward the per-type minimum as a last resort.
func (rp *Repairer) repairAdjacency(rooms []*place.Room) bool {
	for _, rule := range rp.Rules {
		if rule.Kind != program.MustBeAdjacent {
			continue
		}
		offender, neighbours := rp.findAdjacencyViolation(rule, rooms)
		if offender == nil {
			continue
		}

		w, h := offender.Rect.W, offender.Rect.H
		minW, minH := minCells(offender.Type(), rp.Grid.CellFt)
		for ; w >= minW && h >= minH; w, h = w-1, h-1 {
			for _, dims := range [][2]int{{w, h}, {h, w}} {
				if rp.tryRelocate(offender, dims[0], dims[1], neighbours, rooms) {
					rp.Logger.Debug("adjacency repair relocated room", "room", offender.Name())
					return true
				}
			}
		}
	}
	return false
}

// findAdjacencyViolation returns a placed room violating the rule plus the
// rooms it must adjoin, or nil when the rule holds.
func (rp *Repairer) findAdjacencyViolation(rule program.AdjacencyRule, rooms []*place.Room) (*place.Room, []*place.Room) {
	for _, r := range rooms {
		other, ok := rule.Matches(r.Type())
		if !ok || r.Locked {
			continue
		}
		var neighbours []*place.Room
		for _, n := range rooms {
			if n != r && n.Type() == other {
				neighbours = append(neighbours, n)
			}
		}
		if len(neighbours) == 0 {
			continue
		}
		for _, n := range neighbours {
			if r.Rect.SharedBoundary(n.Rect) >= rp.Scorer.DoorwayCells {
				neighbours = nil
				break
			}
		}
		if neighbours != nil {
			return r, neighbours
		}
	}
	return nil, nil
}

// tryRelocate moves room to the best free candidate of size w × h flush
// against the neighbours, keeping the scorer's hard constraints intact.
func (rp *Repairer) tryRelocate(room *place.Room, w, h int, neighbours, rooms []*place.Room) bool {
	rp.Grid.Release(room.Rect, room.Name())
	defer func() { rp.Grid.Occupy(room.Rect, room.Name()) }()

	others := withoutRoom(rooms, room)
	for _, p := range place.Candidates(rp.Grid, w, h, neighbours, 0) {
		r := grid.Rect{X: p.X, Y: p.Y, W: w, H: h}
		if !touchesAny(r, neighbours, rp.Scorer.DoorwayCells) {
			continue
		}
		if rp.Scorer.Score(room.Spec, r, others, neighbours) <= place.FeasibilityFloor {
			continue
		}
		room.Rect = r
		return true
	}
	return false
}

// =============================================================================
// Strategy 2: Privacy Repair
// =============================================================================

// repairPrivacy relocates a bathroom flagged by the privacy check to the
// free candidate position farthest from the entrance, anchored to the
// private zone it serves.
func (rp *Repairer) repairPrivacy(rooms []*place.Room, violations []string) bool {
	if !hasPrivacyViolation(violations) {
		return false
	}
	entrances := ofType(rooms, program.TypeEntrance)
	if len(entrances) == 0 {
		return false
	}
	threshold := rp.Validator.PrivacyFt / rp.Grid.CellFt

	for _, b := range ofType(rooms, program.TypeBathroom) {
		if b.Locked || !tooClose(b, entrances, threshold) {
			continue
		}
		anchors := privateAnchors(rooms, b)
		if len(anchors) == 0 {
			anchors = withoutRoom(rooms, b)
		}

		rp.Grid.Release(b.Rect, b.Name())
		moved := false
		bestDist := -1.0
		best := b.Rect
		for _, p := range place.Candidates(rp.Grid, b.Rect.W, b.Rect.H, anchors, 0) {
			r := grid.Rect{X: p.X, Y: p.Y, W: b.Rect.W, H: b.Rect.H}
			d := nearestDistance(r, entrances)
			if d >= threshold && d > bestDist {
				bestDist, best, moved = d, r, true
			}
		}
		if moved {
			b.Rect = best
		}
		rp.Grid.Occupy(b.Rect, b.Name())
		if moved {
			rp.Logger.Debug("privacy repair relocated bathroom", "room", b.Name(), "distance_cells", bestDist)
			return true
		}
	}
	return false
}

// =============================================================================
// Strategy 3: Random Nudge
// =============================================================================

// randomNudge perturbs one non-locked room by a small seeded offset and
// keeps the move only when the grid stays collision-free and validity does
// not get worse.
func (rp *Repairer) randomNudge(rooms []*place.Room) bool {
	movable := withoutLocked(rooms)
	if len(movable) == 0 {
		return false
	}
	room := movable[rp.rng.IntN(len(movable))]
	dx := rp.rng.IntN(2*nudgeRange+1) - nudgeRange
	dy := rp.rng.IntN(2*nudgeRange+1) - nudgeRange
	if dx == 0 && dy == 0 {
		return false
	}

	before := len(rp.Validator.Check(rooms))
	old := room.Rect
	next := grid.Rect{X: old.X + dx, Y: old.Y + dy, W: old.W, H: old.H}

	rp.Grid.Release(old, room.Name())
	if !rp.Grid.IsFree(next) {
		rp.Grid.Occupy(old, room.Name())
		return false
	}
	room.Rect = next
	rp.Grid.Occupy(next, room.Name())

	if len(rp.Validator.Check(rooms)) > before {
		rp.Grid.Release(next, room.Name())
		room.Rect = old
		rp.Grid.Occupy(old, room.Name())
		return false
	}
	return true
}

// =============================================================================
// Helpers
// =============================================================================

func minCells(t program.RoomType, cellFt float64) (int, int) {
	m, ok := program.MinSizes[t]
	if !ok {
		m = program.MinSize{Width: 5, Height: 5}
	}
	return grid.FeetToCells(m.Width, cellFt), grid.FeetToCells(m.Height, cellFt)
}

func touchesAny(r grid.Rect, rooms []*place.Room, doorway int) bool {
	for _, n := range rooms {
		if r.SharedBoundary(n.Rect) >= doorway {
			return true
		}
	}
	return false
}

func hasPrivacyViolation(violations []string) bool {
	for _, v := range violations {
		if strings.Contains(v, "privacy threshold") {
			return true
		}
	}
	return false
}

func tooClose(b *place.Room, entrances []*place.Room, thresholdCells float64) bool {
	for _, e := range entrances {
		if b.Rect.ManhattanDistance(e.Rect) < thresholdCells {
			return true
		}
	}
	return false
}

func nearestDistance(r grid.Rect, entrances []*place.Room) float64 {
	best := -1.0
	for _, e := range entrances {
		d := r.ManhattanDistance(e.Rect)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

func privateAnchors(rooms []*place.Room, skip *place.Room) []*place.Room {
	var out []*place.Room
	for _, r := range rooms {
		if r != skip && r.Zone == program.ZonePrivate {
			out = append(out, r)
		}
	}
	return out
}

func withoutRoom(rooms []*place.Room, skip *place.Room) []*place.Room {
	var out []*place.Room
	for _, r := range rooms {
		if r != skip {
			out = append(out, r)
		}
	}
	return out
}

func withoutLocked(rooms []*place.Room) []*place.Room {
	var out []*place.Room
	for _, r := range rooms {
		if !r.Locked {
			out = append(out, r)
		}
	}
	return out
}

func ofType(rooms []*place.Room, t program.RoomType) []*place.Room {
	var out []*place.Room
	for _, r := range rooms {
		if r.Type() == t {
			out = append(out, r)
		}
	}
	return out
}
