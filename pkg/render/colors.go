package render

// Zone fill colors. Public rooms read green, private rooms blue, service
// rooms orange; fixed lot features stay neutral grey.
var zoneFills = map[string]string{
	"public":  "#98FB98",
	"private": "#87CEEB",
	"service": "#FFA07A",
}

const (
	fixedFill   = "#DDDDDD"
	defaultFill = "#F5F5F5"
	strokeColor = "#333333"
	labelColor  = "#1A1A1A"
)

// fillFor returns the fill color for a room.
func fillFor(typ, zone string) string {
	if typ == "fixed" {
		return fixedFill
	}
	if c, ok := zoneFills[zone]; ok {
		return c
	}
	return defaultFill
}
