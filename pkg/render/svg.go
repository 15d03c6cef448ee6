package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/roomforge/pkg/layout"
)

// SVG renders the layout as a scalable floor plan.
//
// Each room is a filled rectangle with its name and area centered inside;
// the lot outline is drawn last so room strokes never cover it. Small rooms
// drop the area line to keep labels readable.
func SVG(l layout.Layout, opts Options) []byte {
	opts = opts.withDefaults()
	s := opts.Scale
	width := l.Lot.Width * s
	height := l.Lot.Height * s

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" fill="#FFFFFF"/>`+"\n", width, height)

	for _, r := range l.Rooms {
		x, y := r.X*s, r.Y*s
		w, h := r.Width*s, r.Height*s
		fmt.Fprintf(&buf,
			`  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			x, y, w, h, fillFor(r.Type, r.Zone), strokeColor)

		cx, cy := x+w/2, y+h/2
		fontSize := min(14.0, h/3)
		fmt.Fprintf(&buf,
			`  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="%s" text-anchor="middle">%s</text>`+"\n",
			cx, cy, fontSize, labelColor, escapeText(r.Name))
		if h >= 40 {
			fmt.Fprintf(&buf,
				`  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%.0f" fill="%s" text-anchor="middle">%.0f ft²</text>`+"\n",
				cx, cy+fontSize+2, fontSize*0.8, labelColor, r.Area())
		}
	}

	// Lot outline on top of the room strokes.
	fmt.Fprintf(&buf,
		`  <rect x="0" y="0" width="%.0f" height="%.0f" fill="none" stroke="#000000" stroke-width="4"/>`+"\n",
		width, height)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
