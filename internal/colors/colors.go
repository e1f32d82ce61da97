// Package colors maps tag and category names to stable display colors.
package colors

// Color is a hex color string, usable directly as a lipgloss.Color.
type Color string

// Palette is the fixed, ordered set of chip colors. Reordering it changes
// every name's color, so append only.
var Palette = [...]Color{
	"#719cd6", // blue
	"#81b29a", // green
	"#dbc074", // yellow
	"#c94f6d", // red
	"#63cdcf", // cyan
	"#9d79d6", // magenta
	"#f4a261", // orange
	"#7FB4CA", // spring blue
	"#98BB6C", // spring green
	"#E46876", // wave red
	"#957FB8", // violet
	"#38bdf8", // sky
}

// ColorFor returns the palette color for name. It is pure and total: the
// empty string maps to Palette[0].
func ColorFor(name string) Color {
	return Palette[Index(name)]
}

// Index returns the palette index ColorFor uses for name.
func Index(name string) int {
	var hash uint32
	for _, r := range name {
		hash = hash*31 + uint32(r)
	}
	return int(hash % uint32(len(Palette)))
}
