package validate

import (
	"strings"
	"testing"

	"github.com/matzehuels/roomforge/pkg/core/grid"
	"github.com/matzehuels/roomforge/pkg/core/place"
	"github.com/matzehuels/roomforge/pkg/program"
)

func room(name string, typ program.RoomType, r grid.Rect) *place.Room {
	return &place.Room{
		Spec: program.RoomSpec{Name: name, Type: typ},
		Rect: r,
		Zone: program.ZoneFor(typ),
	}
}

// occupy registers the rooms on the grid the way the engine would.
func occupy(g *grid.Grid, rooms []*place.Room) {
	for _, r := range rooms {
		g.Occupy(r.Rect, r.Name())
	}
}

func TestCheckValidLayout(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	rooms := []*place.Room{
		room("Entrance", program.TypeEntrance, grid.Rect{X: 17, Y: 24, W: 6, H: 6}),
		room("Living", program.TypeLiving, grid.Rect{X: 0, Y: 12, W: 15, H: 12}),
		room("Bathroom 1", program.TypeBathroom, grid.Rect{X: 0, Y: 0, W: 6, H: 8}),
	}
	occupy(g, rooms)

	v := New(g, 0)
	if got := v.Check(rooms); len(got) != 0 {
		t.Errorf("valid layout reported violations: %v", got)
	}
}

func TestCheckBoundsOverlap(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	rooms := []*place.Room{
		room("Living", program.TypeLiving, grid.Rect{X: 0, Y: 0, W: 15, H: 12}),
		room("Kitchen", program.TypeKitchen, grid.Rect{X: 10, Y: 5, W: 10, H: 10}),
	}

	out := New(g, 0).CheckBounds(rooms)
	if len(out) != 1 || !strings.Contains(out[0], "overlaps") {
		t.Errorf("CheckBounds = %v, want one overlap violation", out)
	}
}

func TestCheckBoundsOutsideLot(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	rooms := []*place.Room{
		room("Living", program.TypeLiving, grid.Rect{X: 35, Y: 0, W: 10, H: 10}),
	}

	out := New(g, 0).CheckBounds(rooms)
	if len(out) != 1 || !strings.Contains(out[0], "outside the lot") {
		t.Errorf("CheckBounds = %v, want one bounds violation", out)
	}
}

func TestCheckAdjacency(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	living := room("Living", program.TypeLiving, grid.Rect{X: 0, Y: 0, W: 15, H: 12})
	kitchen := room("Kitchen", program.TypeKitchen, grid.Rect{X: 28, Y: 18, W: 10, H: 10})

	// DoorwayCells is left unset to exercise the 4 ft default.
	v := New(g, 0)
	v.Rules = program.DefaultRules()

	out := v.CheckAdjacency([]*place.Room{living, kitchen})
	if len(out) != 1 || !strings.Contains(out[0], "doorway-wide") {
		t.Errorf("CheckAdjacency = %v, want kitchen adjacency violation", out)
	}

	// Flush with a doorway-wide wall the violation clears.
	kitchen.Rect = grid.Rect{X: 0, Y: 12, W: 10, H: 10}
	if out := v.CheckAdjacency([]*place.Room{living, kitchen}); len(out) != 0 {
		t.Errorf("CheckAdjacency = %v, want none", out)
	}

	// A master bedroom flush against the living room breaks mustNotBeAdjacent.
	master := room("Master Bedroom", program.TypeMaster, grid.Rect{X: 15, Y: 0, W: 12, H: 12})
	out = v.CheckAdjacency([]*place.Room{living, kitchen, master})
	if len(out) != 1 || !strings.Contains(out[0], "must not share a wall") {
		t.Errorf("CheckAdjacency = %v, want master separation violation", out)
	}
}

func TestCheckConnectivityNoEntrance(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	rooms := []*place.Room{
		room("Living", program.TypeLiving, grid.Rect{X: 0, Y: 0, W: 15, H: 12}),
	}
	out := New(g, 0).CheckConnectivity(rooms)
	if len(out) != 1 || !strings.Contains(out[0], "no entrance") {
		t.Errorf("CheckConnectivity = %v, want missing-entrance violation", out)
	}
}

func TestCheckConnectivityUnreachable(t *testing.T) {
	// A wall of private bedrooms spans the full lot width and cuts the living
	// room off from the entrance. Private rooms block the flood fill.
	g := grid.New(20, 30, 1.0)
	rooms := []*place.Room{
		room("Entrance", program.TypeEntrance, grid.Rect{X: 7, Y: 24, W: 6, H: 6}),
		room("Bedroom 1", program.TypeBedroom, grid.Rect{X: 0, Y: 12, W: 10, H: 6}),
		room("Bedroom 2", program.TypeBedroom, grid.Rect{X: 10, Y: 12, W: 10, H: 6}),
		room("Living", program.TypeLiving, grid.Rect{X: 0, Y: 0, W: 15, H: 10}),
	}
	occupy(g, rooms)

	out := New(g, 0).CheckConnectivity(rooms)
	if len(out) != 1 || !strings.Contains(out[0], "Living") {
		t.Errorf("CheckConnectivity = %v, want Living unreachable", out)
	}
}

func TestCheckConnectivityThroughFreeCells(t *testing.T) {
	// Same wall with a one-cell gap restores reachability.
	g := grid.New(20, 30, 1.0)
	rooms := []*place.Room{
		room("Entrance", program.TypeEntrance, grid.Rect{X: 7, Y: 24, W: 6, H: 6}),
		room("Bedroom 1", program.TypeBedroom, grid.Rect{X: 0, Y: 12, W: 10, H: 6}),
		room("Bedroom 2", program.TypeBedroom, grid.Rect{X: 11, Y: 12, W: 9, H: 6}),
		room("Living", program.TypeLiving, grid.Rect{X: 0, Y: 0, W: 15, H: 10}),
	}
	occupy(g, rooms)

	if out := New(g, 0).CheckConnectivity(rooms); len(out) != 0 {
		t.Errorf("CheckConnectivity = %v, want none", out)
	}
}

func TestCheckPrivacy(t *testing.T) {
	g := grid.New(40, 30, 1.0)
	entrance := room("Entrance", program.TypeEntrance, grid.Rect{X: 17, Y: 24, W: 6, H: 6})

	// Bathroom right next to the entrance: centers (14,24.5) vs (20,27),
	// Manhattan distance 8.5 ft < 12 ft.
	near := room("Bathroom 1", program.TypeBathroom, grid.Rect{X: 11, Y: 21, W: 6, H: 7})
	out := New(g, 0).CheckPrivacy([]*place.Room{entrance, near})
	if len(out) != 1 || !strings.Contains(out[0], "privacy threshold") {
		t.Errorf("CheckPrivacy = %v, want one privacy violation", out)
	}

	// Far corner bathroom is fine.
	far := room("Bathroom 1", program.TypeBathroom, grid.Rect{X: 0, Y: 0, W: 6, H: 7})
	if out := New(g, 0).CheckPrivacy([]*place.Room{entrance, far}); len(out) != 0 {
		t.Errorf("CheckPrivacy = %v, want none", out)
	}
}

func TestPrivacyThresholdScalesWithCellSize(t *testing.T) {
	// At 2 ft cells the same cell distance is twice the feet.
	g := grid.New(40, 30, 2.0)
	entrance := room("Entrance", program.TypeEntrance, grid.Rect{X: 8, Y: 12, W: 3, H: 3})
	bath := room("Bathroom 1", program.TypeBathroom, grid.Rect{X: 0, Y: 12, W: 3, H: 3})
	// Centers 8 cells apart = 16 ft > 12 ft.
	if out := New(g, 0).CheckPrivacy([]*place.Room{entrance, bath}); len(out) != 0 {
		t.Errorf("CheckPrivacy = %v, want none at 16 ft", out)
	}
}
