package render

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/roomforge/pkg/layout"
)

// PNG renders the layout as a raster floor plan.
//
// The drawing mirrors the SVG renderer: zone-colored room rectangles with
// centered labels inside a heavy lot outline. Entrances additionally get a
// door marker on their outer edge.
func PNG(l layout.Layout, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	s := opts.Scale
	width := int(l.Lot.Width * s)
	height := int(l.Lot.Height * s)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("layout has empty lot")
	}

	ctx := gg.NewContext(width, height)
	ctx.SetColor(color.White)
	ctx.Clear()

	for _, r := range l.Rooms {
		x, y := r.X*s, r.Y*s
		w, h := r.Width*s, r.Height*s

		ctx.SetHexColor(fillFor(r.Type, r.Zone))
		ctx.DrawRectangle(x, y, w, h)
		ctx.Fill()

		ctx.SetHexColor(strokeColor)
		ctx.SetLineWidth(2)
		ctx.DrawRectangle(x, y, w, h)
		ctx.Stroke()

		ctx.SetHexColor(labelColor)
		ctx.DrawStringAnchored(r.Name, x+w/2, y+h/2, 0.5, 0.5)

		if r.Type == "entrance" {
			drawDoorMarker(ctx, l, r, s)
		}
	}

	ctx.SetColor(color.Black)
	ctx.SetLineWidth(4)
	ctx.DrawRectangle(0, 0, float64(width), float64(height))
	ctx.Stroke()

	var buf bytes.Buffer
	if err := ctx.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawDoorMarker draws a short line on the entrance edge that touches the
// lot boundary, marking the front door.
func drawDoorMarker(ctx *gg.Context, l layout.Layout, r layout.Room, s float64) {
	const halfSpan = 0.3 // fraction of the edge covered by the marker

	x, y := r.X*s, r.Y*s
	w, h := r.Width*s, r.Height*s
	lotW, lotH := l.Lot.Width*s, l.Lot.Height*s

	ctx.SetHexColor("#8B4513")
	ctx.SetLineWidth(5)
	switch {
	case y+h >= lotH: // south edge
		ctx.DrawLine(x+w*(0.5-halfSpan), y+h, x+w*(0.5+halfSpan), y+h)
	case y <= 0: // north edge
		ctx.DrawLine(x+w*(0.5-halfSpan), y, x+w*(0.5+halfSpan), y)
	case x <= 0: // west edge
		ctx.DrawLine(x, y+h*(0.5-halfSpan), x, y+h*(0.5+halfSpan))
	case x+w >= lotW: // east edge
		ctx.DrawLine(x+w, y+h*(0.5-halfSpan), x+w, y+h*(0.5+halfSpan))
	default:
		return
	}
	ctx.Stroke()
}
