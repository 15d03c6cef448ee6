package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/program"
)

// ConstraintDOT converts a layout to Graphviz DOT format showing the room
// adjacency structure. Solid edges connect rooms that share a wall; dashed
// red edges mark adjacency rules that ended up violated in the geometry.
//
// The resulting DOT string can be rendered in-process with [ConstraintSVG].
func ConstraintDOT(l layout.Layout, rules []program.AdjacencyRule) string {
	var buf bytes.Buffer
	buf.WriteString("graph constraints {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12];\n")
	buf.WriteString("\n")

	for _, r := range l.Rooms {
		fmt.Fprintf(&buf, "  %q [fillcolor=%q];\n", r.Name, fillFor(r.Type, r.Zone))
	}
	buf.WriteString("\n")

	for i, a := range l.Rooms {
		for _, b := range l.Rooms[i+1:] {
			if sharesWall(a, b) {
				fmt.Fprintf(&buf, "  %q -- %q;\n", a.Name, b.Name)
			}
		}
	}

	for _, rule := range rules {
		if rule.Kind != program.MustBeAdjacent {
			continue
		}
		for _, a := range l.RoomsOfType(string(rule.TypeA)) {
			if satisfied(a, l.RoomsOfType(string(rule.TypeB))) {
				continue
			}
			for _, b := range l.RoomsOfType(string(rule.TypeB)) {
				fmt.Fprintf(&buf, "  %q -- %q [style=dashed, color=red];\n", a.Name, b.Name)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ConstraintSVG renders the constraint graph to SVG using Graphviz.
func ConstraintSVG(l layout.Layout, rules []program.AdjacencyRule) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ConstraintDOT(l, rules)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// sharesWall reports whether two rooms touch along an edge with positive
// overlap, using a small epsilon against float drift from cell conversion.
func sharesWall(a, b layout.Room) bool {
	const eps = 1e-6
	overlapX := min(a.X+a.Width, b.X+b.Width) - max(a.X, b.X)
	overlapY := min(a.Y+a.Height, b.Y+b.Height) - max(a.Y, b.Y)

	touchesV := abs(a.X+a.Width-b.X) < eps || abs(b.X+b.Width-a.X) < eps
	touchesH := abs(a.Y+a.Height-b.Y) < eps || abs(b.Y+b.Height-a.Y) < eps

	return (touchesV && overlapY > eps) || (touchesH && overlapX > eps)
}

func satisfied(a layout.Room, others []layout.Room) bool {
	for _, b := range others {
		if strings.EqualFold(a.Name, b.Name) {
			continue
		}
		if sharesWall(a, b) {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
