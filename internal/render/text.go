package render

import (
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is used when a view is created with a non-positive width.
const DefaultTabWidth = 4

// cluster is one grapheme of a line with its display geometry.
type cluster struct {
	runes []rune
	x     int // visual offset from the line start
	width int
}

// layoutLine splits line into grapheme clusters and assigns visual offsets,
// expanding tabs to the next tab stop.
func layoutLine(line []byte, tabWidth int) []cluster {
	out := make([]cluster, 0, len(line))
	gr := uniseg.NewGraphemes(string(line))
	x := 0
	for gr.Next() {
		runes := gr.Runes()
		width := gr.Width()
		if len(runes) == 1 && runes[0] == '\t' {
			width = tabWidth - x%tabWidth
		}
		out = append(out, cluster{runes: runes, x: x, width: width})
		x += width
	}
	return out
}

// leadingWidth returns the visual width of the whitespace that starts line.
func leadingWidth(line []byte, tabWidth int) int {
	for _, c := range layoutLine(line, tabWidth) {
		if len(c.runes) != 1 || (c.runes[0] != ' ' && c.runes[0] != '\t') {
			return c.x
		}
	}
	return -1
}
