package pipeline

import (
	"fmt"

	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/program"
	"github.com/matzehuels/roomforge/pkg/render"
)

// RenderFromLayout renders a layout into every requested format.
func RenderFromLayout(l layout.Layout, rules []program.AdjacencyRule, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	renderOpts := render.Options{Scale: opts.Scale, Rules: rules}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(l, format, renderOpts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
