package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/program"
)

func testLayout() layout.Layout {
	return layout.Layout{
		Lot:    layout.Lot{Width: 40, Height: 30},
		Status: layout.StatusOK,
		Rooms: []layout.Room{
			{Name: "Entrance", Type: "entrance", Zone: "public", X: 17, Y: 24, Width: 6, Height: 6, Locked: true},
			{Name: "Living", Type: "living", Zone: "public", X: 0, Y: 12, Width: 15, Height: 12},
			{Name: "Kitchen", Type: "kitchen", Zone: "service", X: 0, Y: 0, Width: 10, Height: 12},
			{Name: "Bedroom 1", Type: "bedroom", Zone: "private", X: 25, Y: 0, Width: 10, Height: 11},
		},
	}
}

func TestSVG(t *testing.T) {
	svg := string(SVG(testLayout(), Options{}))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing svg root element")
	}
	// 40x30 ft lot at 10 px/ft
	if !strings.Contains(svg, `viewBox="0 0 400 300"`) {
		t.Error("viewBox should cover the scaled lot")
	}
	for _, name := range []string{"Entrance", "Living", "Kitchen", "Bedroom 1"} {
		if !strings.Contains(svg, ">"+name+"<") {
			t.Errorf("label %q missing", name)
		}
	}
	// Zone fills: public green, private blue, service orange
	for _, color := range []string{zoneFills["public"], zoneFills["private"], zoneFills["service"]} {
		if !strings.Contains(svg, color) {
			t.Errorf("zone fill %s missing", color)
		}
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("unterminated svg document")
	}
}

func TestSVGScale(t *testing.T) {
	svg := string(SVG(testLayout(), Options{Scale: 5}))
	if !strings.Contains(svg, `viewBox="0 0 200 150"`) {
		t.Error("custom scale not applied")
	}
}

func TestSVGEscapesLabels(t *testing.T) {
	l := testLayout()
	l.Rooms[0].Name = "A & B <Room>"
	svg := string(SVG(l, Options{}))
	if strings.Contains(svg, "A & B <Room>") {
		t.Error("label not escaped")
	}
	if !strings.Contains(svg, "A &amp; B &lt;Room&gt;") {
		t.Error("escaped label missing")
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(testLayout(), Options{})
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG")
	}
}

func TestConstraintDOT(t *testing.T) {
	dot := ConstraintDOT(testLayout(), program.DefaultRules())

	if !strings.HasPrefix(dot, "graph constraints {") {
		t.Error("missing graph header")
	}
	// Living and Kitchen are flush at y=12/y in [0,12): they share a wall.
	if !strings.Contains(dot, `"Kitchen" -- "Living"`) && !strings.Contains(dot, `"Living" -- "Kitchen"`) {
		t.Error("kitchen-living wall edge missing")
	}
	// The detached bedroom has no wall edges.
	if strings.Contains(dot, `"Bedroom 1" --`) || strings.Contains(dot, `-- "Bedroom 1"`) {
		t.Error("detached bedroom should have no edges")
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("unterminated graph")
	}
}

func TestConstraintDOTFlagsViolatedRules(t *testing.T) {
	// Kitchen moved away from the living room: the mustBeAdjacent rule is
	// violated and gets a dashed red edge.
	l := testLayout()
	l.Rooms[2].X, l.Rooms[2].Y = 30, 18
	dot := ConstraintDOT(l, program.DefaultRules())

	if !strings.Contains(dot, "style=dashed, color=red") {
		t.Error("violated adjacency rule should be drawn dashed red")
	}
}

func TestRenderDispatch(t *testing.T) {
	l := testLayout()

	svg, err := Render(l, "svg", Options{})
	if err != nil || len(svg) == 0 {
		t.Errorf("svg render: %v", err)
	}

	jsonData, err := Render(l, "json", Options{})
	if err != nil {
		t.Fatalf("json render: %v", err)
	}
	got, err := layout.Unmarshal(jsonData)
	if err != nil || len(got.Rooms) != 4 {
		t.Errorf("json artifact does not round-trip: %v", err)
	}

	if _, err := Render(l, "gif", Options{}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestFillFor(t *testing.T) {
	if got := fillFor("fixed", "public"); got != fixedFill {
		t.Errorf("fixed fill = %s, want %s", got, fixedFill)
	}
	if got := fillFor("bedroom", "private"); got != zoneFills["private"] {
		t.Errorf("private fill = %s", got)
	}
	if got := fillFor("bedroom", "unknown-zone"); got != defaultFill {
		t.Errorf("unknown zone fill = %s", got)
	}
}
