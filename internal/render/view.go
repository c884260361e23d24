// Package render draws analysis results onto a tcell screen.
package render

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/gdamore/tcell/v2"
)

const (
	lineNumberPadding = 1
	blockGuideRune    = '│'
)

// View is a scrollable window over a document. All scheme colors are read
// at draw time, so a color change only needs a redraw.
type View struct {
	scheme   *theme.Scheme
	tabWidth int
	dirty    atomic.Bool

	TopLine    int // first document line on screen
	LeftCol    int // horizontal scroll, in cells
	CursorLine int // line painted with the current-line color
}

// NewView creates a view painting with scheme.
func NewView(scheme *theme.Scheme, tabWidth int) *View {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	v := &View{scheme: scheme, tabWidth: tabWidth}
	v.dirty.Store(true)
	return v
}

// ColorUpdated marks the view for redraw.
func (v *View) ColorUpdated(theme.ColorID) {
	v.dirty.Store(true)
}

// MarkDirty requests a redraw.
func (v *View) MarkDirty() {
	v.dirty.Store(true)
}

// Dirty reports whether a redraw was requested since the last Draw.
func (v *View) Dirty() bool {
	return v.dirty.Load()
}

// Area is the screen rectangle a view draws into.
type Area struct {
	X, Y, Width, Height int
}

// GutterWidth returns the width of the line number column for lineCount lines.
func GutterWidth(lineCount int) int {
	if lineCount < 1 {
		lineCount = 1
	}
	return int(math.Log10(float64(lineCount))) + 1 + lineNumberPadding
}

// Draw paints lines into area using res for colors and blocks. res may be
// nil while the first pass is still running.
func (v *View) Draw(screen tcell.Screen, area Area, lines [][]byte, res *analysis.Result) {
	v.dirty.Store(false)
	if area.Width <= 0 || area.Height <= 0 {
		return
	}

	gutter := GutterWidth(len(lines))
	if gutter >= area.Width {
		gutter = 0
	}
	textWidth := area.Width - gutter - 1 // one column for the divider
	if gutter == 0 {
		textWidth = area.Width
	}

	background := v.scheme.Style(theme.TextNormal, theme.WholeBackground)
	current := v.scheme.Style(theme.TextNormal, theme.CurrentLine)
	numberStyle := v.scheme.Style(theme.LineNumber, theme.LineNumberBackground)
	dividerStyle := v.scheme.Style(theme.LineDivider, theme.LineNumberBackground)
	textX := area.X
	if gutter > 0 {
		textX += gutter + 1
	}

	for row := 0; row < area.Height; row++ {
		y := area.Y + row
		lineIdx := v.TopLine + row
		rowStyle := background
		if lineIdx == v.CursorLine {
			rowStyle = current
		}
		for x := area.X; x < area.X+area.Width; x++ {
			screen.SetContent(x, y, ' ', nil, rowStyle)
		}

		if gutter > 0 {
			label := ""
			if lineIdx < len(lines) {
				label = fmt.Sprintf("%*d", gutter-lineNumberPadding, lineIdx+1)
			}
			style := numberStyle
			if lineIdx == v.CursorLine {
				style = style.Bold(true)
			}
			for i := 0; i < gutter; i++ {
				r := ' '
				if i < len(label) {
					r = rune(label[i])
				}
				screen.SetContent(area.X+i, y, r, nil, style)
			}
			screen.SetContent(area.X+gutter, y, '│', nil, dividerStyle)
		}

		if lineIdx >= len(lines) {
			continue
		}
		var spans []analysis.Span
		if res != nil {
			spans = res.Line(lineIdx)
		}
		v.drawLine(screen, textX, y, textWidth, lines[lineIdx], spans, rowStyle)
	}

	if res != nil {
		v.drawBlockGuides(screen, textX, area, textWidth, lines, res)
	}
}

// drawLine paints one line's clusters, coloring each from its span.
func (v *View) drawLine(screen tcell.Screen, x0, y, width int, line []byte, spans []analysis.Span, rowStyle tcell.Style) {
	_, bg, _ := rowStyle.Decompose()
	spanIdx := 0
	for col, c := range layoutLine(line, v.tabWidth) {
		for spanIdx+1 < len(spans) && spans[spanIdx+1].Column <= col {
			spanIdx++
		}
		style := rowStyle
		if len(spans) > 0 {
			style = tcell.StyleDefault.Foreground(v.scheme.Color(spans[spanIdx].Color).Tcell()).Background(bg)
		}

		sx := c.x - v.LeftCol
		if sx+c.width <= 0 {
			continue
		}
		if sx >= width {
			break
		}
		if sx < 0 || c.runes[0] == '\t' {
			for i := max(sx, 0); i < sx+c.width && i < width; i++ {
				screen.SetContent(x0+i, y, ' ', nil, style)
			}
			continue
		}
		screen.SetContent(x0+sx, y, c.runes[0], c.runes[1:], style)
		for i := 1; i < c.width && sx+i < width; i++ {
			screen.SetContent(x0+sx+i, y, ' ', nil, style)
		}
	}
}

// drawBlockGuides draws a vertical rule for every block through the lines it
// encloses, at the indentation of its closing line. Guides only occupy blank
// cells. The block holding the cursor uses the current-block color.
func (v *View) drawBlockGuides(screen tcell.Screen, x0 int, area Area, width int, lines [][]byte, res *analysis.Result) {
	currentIdx := res.InnermostBlock(v.CursorLine)
	bottom := v.TopLine + area.Height - 1

	for i, b := range res.Blocks() {
		if !b.Valid() || b.EndLine < v.TopLine || b.StartLine > bottom || b.EndLine >= len(lines) {
			continue
		}
		guideX := leadingWidth(lines[b.EndLine], v.tabWidth)
		if guideX < 0 {
			continue
		}
		sx := guideX - v.LeftCol
		if sx < 0 || sx >= width {
			continue
		}
		color := theme.BlockLine
		if i == currentIdx {
			color = theme.BlockLineCurrent
		}

		for line := max(b.StartLine+1, v.TopLine); line < b.EndLine && line <= bottom; line++ {
			y := area.Y + line - v.TopLine
			mainc, _, style, _ := screen.GetContent(x0+sx, y)
			if mainc != ' ' {
				continue
			}
			_, bg, _ := style.Decompose()
			screen.SetContent(x0+sx, y, blockGuideRune, nil,
				tcell.StyleDefault.Foreground(v.scheme.Color(color).Tcell()).Background(bg))
		}
	}
}

// ScrollTo adjusts TopLine so line is visible in a view of height rows.
func (v *View) ScrollTo(line, height int) {
	if line < v.TopLine {
		v.TopLine = line
	} else if height > 0 && line >= v.TopLine+height {
		v.TopLine = line - height + 1
	}
	if v.TopLine < 0 {
		v.TopLine = 0
	}
	v.dirty.Store(true)
}
