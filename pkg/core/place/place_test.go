package place

import (
	"testing"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/program"
)

func testSpec(t *testing.T) *program.Spec {
	t.Helper()
	raw := &program.RawProgram{
		Lot: program.Lot{Width: 40, Height: 30},
		Rooms: []program.RawRoomItem{
			{Type: "living", Count: 1},
			{Type: "kitchen", Count: 1},
			{Type: "master_bedroom", Count: 1},
			{Type: "bedroom", Count: 1},
			{Type: "bathroom", Count: 1},
		},
	}
	spec, err := program.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	return spec
}

func TestEngineRunPlacesAllRooms(t *testing.T) {
	spec := testSpec(t)
	engine := NewEngine(spec.Lot, spec.Rules, Config{})
	res := engine.Run(spec)

	if res.Status == StatusFailure {
		t.Fatalf("run failed: %+v", res.Outcomes)
	}
	if len(res.Rooms) != len(spec.Rooms) {
		t.Errorf("placed %d rooms, want %d", len(res.Rooms), len(spec.Rooms))
	}

	for _, r := range res.Rooms {
		if !engine.Grid().InBounds(r.Rect) {
			t.Errorf("%s extends outside the lot: %+v", r.Name(), r.Rect)
		}
	}

	// No pairwise overlap
	for i, a := range res.Rooms {
		for _, b := range res.Rooms[i+1:] {
			if a.Rect.Overlaps(b.Rect) {
				t.Errorf("%s overlaps %s", a.Name(), b.Name())
			}
		}
	}
}

func TestEngineFixedFeatureNames(t *testing.T) {
	engine := NewEngine(program.Lot{Width: 60, Height: 40}, nil, Config{})
	engine.placeFixedFeatures([]program.FixedFeature{
		{Type: "pool", Position: "left", Width: 10, Height: 10},
		{Type: "pool", Position: "right", Width: 10, Height: 10},
		{Type: "pool", Position: "top", Width: 10, Height: 10},
	})

	rooms := engine.Rooms()
	if len(rooms) != 3 {
		t.Fatalf("placed %d features, want 3", len(rooms))
	}
	want := []string{"pool", "pool-2", "pool-3"}
	for i, r := range rooms {
		if r.Name() != want[i] {
			t.Errorf("feature %d named %q, want %q", i, r.Name(), want[i])
		}
	}
}

func TestEngineBedroomsAvoidNoisyRooms(t *testing.T) {
	spec := testSpec(t)
	engine := NewEngine(spec.Lot, spec.Rules, Config{})
	res := engine.Run(spec)

	noisy := append(res.RoomsOfType(program.TypeLiving), res.RoomsOfType(program.TypeKitchen)...)
	sleeping := append(res.RoomsOfType(program.TypeMaster), res.RoomsOfType(program.TypeBedroom)...)
	for _, s := range sleeping {
		for _, n := range noisy {
			if s.Rect.SharedBoundary(n.Rect) > 0 {
				t.Errorf("%s shares a wall with %s", s.Name(), n.Name())
			}
		}
	}
}

func TestEngineEntranceOnLotEdge(t *testing.T) {
	spec := testSpec(t)
	engine := NewEngine(spec.Lot, spec.Rules, Config{})
	res := engine.Run(spec)

	entrances := res.RoomsOfType(program.TypeEntrance)
	if len(entrances) != 1 {
		t.Fatalf("entrances = %d, want 1", len(entrances))
	}
	e := entrances[0]
	g := engine.Grid()
	onEdge := e.Rect.X == 0 || e.Rect.Y == 0 ||
		e.Rect.X+e.Rect.W == g.Cols || e.Rect.Y+e.Rect.H == g.Rows
	if !onEdge {
		t.Errorf("entrance not on a lot edge: %+v", e.Rect)
	}
	if !e.Locked {
		t.Error("entrance should be locked")
	}
}

func TestEngineDeterminism(t *testing.T) {
	spec := testSpec(t)

	a := NewEngine(spec.Lot, spec.Rules, Config{}).Run(spec)
	b := NewEngine(spec.Lot, spec.Rules, Config{}).Run(spec)

	if len(a.Rooms) != len(b.Rooms) {
		t.Fatalf("room counts differ: %d vs %d", len(a.Rooms), len(b.Rooms))
	}
	for i := range a.Rooms {
		if a.Rooms[i].Rect != b.Rooms[i].Rect || a.Rooms[i].Name() != b.Rooms[i].Name() {
			t.Errorf("room %d differs: %s %+v vs %s %+v",
				i, a.Rooms[i].Name(), a.Rooms[i].Rect, b.Rooms[i].Name(), b.Rooms[i].Rect)
		}
	}
}

func TestEngineFixedFeatures(t *testing.T) {
	raw := &program.RawProgram{
		Lot:   program.Lot{Width: 50, Height: 40},
		Rooms: []program.RawRoomItem{{Type: "living", Count: 1}},
		Features: []program.RawFeature{
			{Type: "pool", Position: "right", Width: 12, Height: 20},
		},
	}
	spec, err := program.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	engine := NewEngine(spec.Lot, spec.Rules, Config{})
	res := engine.Run(spec)

	pool := res.RoomByName("pool")
	if pool == nil {
		t.Fatal("pool feature not placed")
	}
	if !pool.Locked {
		t.Error("features must be locked")
	}
	if pool.Rect.X+pool.Rect.W != engine.Grid().Cols {
		t.Errorf("pool should be flush right, got %+v", pool.Rect)
	}
}

func TestCandidatesAnchorFlush(t *testing.T) {
	g := grid.New(20, 20, 1.0)
	anchor := &Room{
		Spec: program.RoomSpec{Name: "living", Type: program.TypeLiving},
		Rect: grid.Rect{X: 5, Y: 5, W: 6, H: 5},
	}
	g.Occupy(anchor.Rect, anchor.Name())

	pts := Candidates(g, 4, 4, []*Room{anchor}, 0)
	if len(pts) == 0 {
		t.Fatal("no candidates around a lone anchor")
	}
	for _, p := range pts {
		r := grid.Rect{X: p.X, Y: p.Y, W: 4, H: 4}
		if !g.IsFree(r) {
			t.Errorf("candidate %+v is not free", p)
		}
		if r.SharedBoundary(anchor.Rect) == 0 {
			t.Errorf("candidate %+v is not flush against the anchor", p)
		}
	}

	// Sorted by (y, x)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
			t.Fatalf("candidates out of order at %d: %+v before %+v", i, a, b)
		}
	}
}

func TestCandidatesFallbackSweep(t *testing.T) {
	g := grid.New(20, 20, 1.0)
	// No anchors at all forces the stride sweep.
	pts := Candidates(g, 4, 4, nil, 4)
	if len(pts) == 0 {
		t.Fatal("sweep produced no candidates on an empty grid")
	}
	if pts[0] != (Point{0, 0}) {
		t.Errorf("first sweep candidate = %+v, want {0 0}", pts[0])
	}
}

func TestScorerHardConstraints(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	rules := program.DefaultRules()
	s := &Scorer{Grid: g, Weights: DefaultWeights(), Rules: rules, DoorwayCells: 4}

	living := &Room{
		Spec: program.RoomSpec{Name: "Living", Type: program.TypeLiving},
		Rect: grid.Rect{X: 0, Y: 0, W: 15, H: 13},
		Zone: program.ZonePublic,
	}
	placed := []*Room{living}

	// A master bedroom flush against the living room violates
	// mustNotBeAdjacent and must be infeasible.
	master := program.RoomSpec{Name: "Master Bedroom", Type: program.TypeMaster}
	badRect := grid.Rect{X: 15, Y: 0, W: 12, H: 12}
	if got := s.Score(master, badRect, placed, placed); got != ScoreInfeasible {
		t.Errorf("adjacent master score = %v, want ScoreInfeasible", got)
	}

	// Clear of the living room it scores normally.
	okRect := grid.Rect{X: 20, Y: 15, W: 12, H: 12}
	if got := s.Score(master, okRect, placed, placed); got <= FeasibilityFloor {
		t.Errorf("separated master score = %v, should clear the floor", got)
	}

	// A kitchen missing its required living adjacency stays placeable with
	// no bonus; the repair loop relocates it later.
	kitchen := program.RoomSpec{Name: "Kitchen", Type: program.TypeKitchen}
	farRect := grid.Rect{X: 28, Y: 18, W: 10, H: 10}
	farScore := s.Score(kitchen, farRect, placed, placed)
	if farScore <= FeasibilityFloor {
		t.Errorf("detached kitchen score = %v, should stay placeable", farScore)
	}

	// Flush with a doorway-wide shared wall it earns the adjacency bonus.
	adjRect := grid.Rect{X: 0, Y: 13, W: 10, H: 10}
	adjScore := s.Score(kitchen, adjRect, placed, placed)
	if adjScore <= farScore {
		t.Errorf("adjacent kitchen score = %v, should beat detached %v", adjScore, farScore)
	}
}

func TestScorerProportionPenalty(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	s := &Scorer{Grid: g, Weights: DefaultWeights()}

	square := s.scoreProportion(grid.Rect{W: 10, H: 10})
	sliver := s.scoreProportion(grid.Rect{W: 30, H: 3})
	if square != 0 {
		t.Errorf("square proportion = %v, want 0", square)
	}
	if sliver >= 0 {
		t.Errorf("sliver proportion = %v, want negative", sliver)
	}
}

func TestRunStatus(t *testing.T) {
	required := program.RoomSpec{Name: "Kitchen", Type: program.TypeKitchen}
	optional := program.RoomSpec{Name: "Bedroom 2", Type: program.TypeBedroom}

	if got := runStatus([]Outcome{{Spec: required, State: StatePlaced}}); got != StatusSuccess {
		t.Errorf("all placed = %v, want success", got)
	}
	if got := runStatus([]Outcome{{Spec: optional, State: StateFailed}}); got != StatusPartial {
		t.Errorf("optional failed = %v, want partial", got)
	}
	if got := runStatus([]Outcome{{Spec: required, State: StateFailed}}); got != StatusFailure {
		t.Errorf("required failed = %v, want failure", got)
	}
}

func TestWeightsDefaults(t *testing.T) {
	w := DefaultWeights()
	if w.Adjacency != 20 || w.Proximity != 15 || w.Environmental != 10 ||
		w.Rectangularity != 8 || w.Proportion != 5 {
		t.Errorf("unexpected default weights: %+v", w)
	}
}
