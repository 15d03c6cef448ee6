// Package render turns generated layouts into visual artifacts.
//
// Three renderers are provided: a hand-rolled SVG writer for the primary
// floor-plan output, a raster PNG renderer built on [github.com/fogleman/gg],
// and a Graphviz-based constraint-graph view that shows which rooms share
// walls. All renderers take geometry in feet and scale it by a configurable
// pixels-per-foot factor.
package render

import (
	"fmt"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/program"
)

// DefaultScale is the default rendering scale in pixels per foot.
const DefaultScale = 10.0

// Options configures rendering.
type Options struct {
	// Scale is the number of pixels per foot. Defaults to [DefaultScale].
	Scale float64

	// Rules are the adjacency rules drawn as edges in the constraint graph.
	// Only used by the DOT and graph renderers.
	Rules []program.AdjacencyRule
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}

// Render dispatches to the renderer for the given format.
// Supported formats: "svg", "png", "dot", "graph-svg", "json".
func Render(l layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case "svg":
		return SVG(l, opts), nil
	case "png":
		return PNG(l, opts)
	case "dot":
		return []byte(ConstraintDOT(l, opts.Rules)), nil
	case "graph-svg":
		return ConstraintSVG(l, opts.Rules)
	case "json":
		return layout.Marshal(l)
	}
	return nil, fmt.Errorf("unknown format: %q", format)
}
