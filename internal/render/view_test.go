package render

import (
	"testing"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func fg(t *testing.T, s tcell.Screen, x, y int) tcell.Color {
	t.Helper()
	_, _, style, _ := s.GetContent(x, y)
	f, _, _ := style.Decompose()
	return f
}

func rowText(s tcell.Screen, y, from, to int) string {
	out := make([]rune, 0, to-from)
	for x := from; x < to; x++ {
		r, _, _, _ := s.GetContent(x, y)
		out = append(out, r)
	}
	return string(out)
}

// goResult mirrors what a producer emits for:
//
//	func f() {
//		x := 1
//	}
func goResult(t *testing.T) ([][]byte, *analysis.Result) {
	t.Helper()
	lines := [][]byte{[]byte("func f() {"), []byte("\tx := 1"), []byte("}")}
	r := analysis.NewResult()
	require.NoError(t, r.AddIfNeeded(0, 0, theme.Keyword))
	require.NoError(t, r.AddIfNeeded(0, 4, theme.TextNormal))
	require.NoError(t, r.AddIfNeeded(0, 5, theme.FunctionName))
	require.NoError(t, r.AddIfNeeded(0, 6, theme.TextNormal))
	require.NoError(t, r.AddIfNeeded(1, 6, theme.Literal))
	require.NoError(t, r.AddIfNeeded(2, 0, theme.TextNormal))
	r.AddBlockLine(analysis.BlockLine{StartLine: 0, StartColumn: 9, EndLine: 2, EndColumn: 1})
	r.Determine(2)
	return lines, r
}

func TestDrawColorsSpans(t *testing.T) {
	scheme := theme.NewScheme()
	s := newScreen(t, 30, 5)
	lines, res := goResult(t)

	v := NewView(scheme, 4)
	v.CursorLine = -1
	v.Draw(s, Area{Width: 30, Height: 5}, lines, res)

	gutter := GutterWidth(len(lines))
	textX := gutter + 1
	assert.Equal(t, "1 │func f() {", rowText(s, 0, 0, textX+10))
	assert.Equal(t, scheme.Color(theme.Keyword).Tcell(), fg(t, s, textX, 0))
	assert.Equal(t, scheme.Color(theme.FunctionName).Tcell(), fg(t, s, textX+5, 0))
	assert.Equal(t, scheme.Color(theme.TextNormal).Tcell(), fg(t, s, textX+6, 0))
	assert.Equal(t, scheme.Color(theme.LineNumber).Tcell(), fg(t, s, 0, 0))

	// The tab expands to four cells; "1" sits at column 6.
	assert.Equal(t, "x := 1", rowText(s, 1, textX+4, textX+10))
	assert.Equal(t, scheme.Color(theme.Literal).Tcell(), fg(t, s, textX+9, 1))
	assert.Equal(t, scheme.Color(theme.TextNormal).Tcell(), fg(t, s, textX+4, 1))

	assert.False(t, v.Dirty())
}

func TestDrawBlockGuides(t *testing.T) {
	scheme := theme.NewScheme()
	s := newScreen(t, 30, 5)
	lines, res := goResult(t)
	textX := GutterWidth(len(lines)) + 1

	v := NewView(scheme, 4)
	v.CursorLine = 1
	v.Draw(s, Area{Width: 30, Height: 5}, lines, res)

	r, _, _, _ := s.GetContent(textX, 1)
	assert.Equal(t, blockGuideRune, r, "guide sits at the closing line's indentation")
	assert.Equal(t, scheme.Color(theme.BlockLineCurrent).Tcell(), fg(t, s, textX, 1))

	v.CursorLine = 4
	v.Draw(s, Area{Width: 30, Height: 5}, lines, res)
	assert.Equal(t, scheme.Color(theme.BlockLine).Tcell(), fg(t, s, textX, 1))

	// Nothing is drawn over text on the enclosing lines.
	r, _, _, _ = s.GetContent(textX, 0)
	assert.Equal(t, 'f', r)
}

func TestDrawWithoutResult(t *testing.T) {
	scheme := theme.NewScheme()
	s := newScreen(t, 20, 3)
	v := NewView(scheme, 0)
	v.Draw(s, Area{Width: 20, Height: 3}, [][]byte{[]byte("plain")}, nil)

	textX := GutterWidth(1) + 1
	assert.Equal(t, "plain", rowText(s, 0, textX, textX+5))
	assert.Equal(t, scheme.Color(theme.TextNormal).Tcell(), fg(t, s, textX, 0))
}

func TestViewRedrawsOnColorChange(t *testing.T) {
	scheme := theme.NewScheme()
	v := NewView(scheme, 4)
	require.NoError(t, scheme.Attach(v))

	s := newScreen(t, 10, 2)
	v.Draw(s, Area{Width: 10, Height: 2}, nil, nil)
	require.False(t, v.Dirty())

	scheme.SetColor(theme.Keyword, theme.Color(0xff123456))
	assert.True(t, v.Dirty())
}

func TestHorizontalScroll(t *testing.T) {
	scheme := theme.NewScheme()
	s := newScreen(t, 12, 1)
	v := NewView(scheme, 4)
	v.LeftCol = 2
	v.Draw(s, Area{Width: 12, Height: 1}, [][]byte{[]byte("abcdef")}, nil)

	textX := GutterWidth(1) + 1
	assert.Equal(t, "cdef", rowText(s, 0, textX, textX+4))
}

func TestScrollTo(t *testing.T) {
	v := NewView(theme.NewScheme(), 4)
	v.ScrollTo(30, 10)
	assert.Equal(t, 21, v.TopLine)
	v.ScrollTo(5, 10)
	assert.Equal(t, 5, v.TopLine)
}

func TestLayoutLine(t *testing.T) {
	got := layoutLine([]byte("a\tb世"), 4)
	require.Len(t, got, 4)
	assert.Equal(t, []int{0, 1, 4, 5}, []int{got[0].x, got[1].x, got[2].x, got[3].x})
	assert.Equal(t, 3, got[1].width)
	assert.Equal(t, 2, got[3].width)

	assert.Equal(t, 4, leadingWidth([]byte("\tx"), 4))
	assert.Equal(t, -1, leadingWidth([]byte("   "), 4))
	assert.Equal(t, 0, leadingWidth([]byte("}"), 4))
}
