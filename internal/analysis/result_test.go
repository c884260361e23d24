package analysis

import (
	"math"
	"testing"

	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spans(pairs ...any) []Span {
	out := make([]Span, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, NewSpan(pairs[i].(int), pairs[i+1].(theme.ColorID)))
	}
	return out
}

func TestEndToEndScenario(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.AddIfNeeded(0, 0, theme.Keyword))
	require.NoError(t, r.AddIfNeeded(0, 3, theme.TextNormal))
	require.NoError(t, r.AddIfNeeded(2, 0, theme.Comment))
	r.Determine(3)

	require.Equal(t, [][]Span{
		spans(0, theme.Keyword, 3, theme.TextNormal),
		spans(0, theme.TextNormal),
		spans(0, theme.Comment),
		spans(0, theme.Comment),
	}, r.SpanMap())
}

func TestForwardExtensionOverSkippedLines(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.Add(0, NewSpan(0, theme.Keyword)))
	require.NoError(t, r.Add(0, NewSpan(4, theme.Literal)))
	require.NoError(t, r.Add(5, NewSpan(0, theme.Operator)))
	r.Determine(5)

	for line := 1; line <= 4; line++ {
		assert.Equal(t, spans(0, theme.Literal), r.Line(line), "line %d", line)
	}
	assert.Equal(t, spans(0, theme.Operator), r.Line(5))
}

func TestForwardExtensionWithoutPriorSpan(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.Add(2, NewSpan(3, theme.Keyword)))

	assert.Equal(t, spans(0, theme.TextNormal), r.Line(0))
	assert.Equal(t, spans(0, theme.TextNormal), r.Line(1))
	assert.Equal(t, spans(0, theme.TextNormal, 3, theme.Keyword), r.Line(2), "column > 0 keeps the fill")
}

func TestColumnZeroReplacesFill(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.Add(0, NewSpan(0, theme.Comment)))
	require.NoError(t, r.Add(1, NewSpan(0, theme.Keyword)))

	assert.Equal(t, spans(0, theme.Keyword), r.Line(1))
}

func TestForwardExtensionCopiesSpans(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.Add(0, NewSpan(7, theme.Comment)))
	r.Determine(2)

	r.SpanMap()[1][0].Color = theme.Keyword
	assert.Equal(t, theme.Comment, r.Line(2)[0].Color, "lines must not share span storage")
	assert.Equal(t, 7, r.Line(0)[1].Column)
	assert.Equal(t, 0, r.Line(1)[0].Column)
}

func TestOutOfOrderAppendIsRejected(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.Add(3, NewSpan(0, theme.Keyword)))
	before := cloneMap(r.SpanMap())

	err := r.Add(2, NewSpan(0, theme.Comment))
	require.ErrorIs(t, err, ErrOutOfOrder)
	var ooe *OutOfOrderError
	require.ErrorAs(t, err, &ooe)
	assert.Equal(t, 2, ooe.Line)
	assert.Equal(t, 3, ooe.Tail)

	assert.Equal(t, before, r.SpanMap())

	// The failed call must not have become the last span either.
	require.NoError(t, r.AddIfNeeded(3, 5, theme.Comment))
	assert.Equal(t, spans(0, theme.Keyword, 5, theme.Comment), r.Line(3))
}

func TestAddIfNeededDeduplicates(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.AddIfNeeded(0, 0, theme.Keyword))
	require.NoError(t, r.AddIfNeeded(0, 5, theme.Keyword))

	assert.Equal(t, [][]Span{spans(0, theme.Keyword)}, r.SpanMap())
}

func TestAddIfNeededComparesAcrossLines(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.AddIfNeeded(0, 2, theme.Comment))
	require.NoError(t, r.AddIfNeeded(1, 0, theme.Comment))
	r.Determine(1)

	// The second call is skipped; line 1 still resolves through the fill.
	assert.Equal(t, spans(0, theme.Comment), r.Line(1))
	assert.Equal(t, 2, r.LineCount())
}

func TestColumnChecks(t *testing.T) {
	r := NewResult(WithColumnChecks())
	require.NoError(t, r.Add(0, NewSpan(0, theme.Keyword)))
	require.NoError(t, r.Add(0, NewSpan(4, theme.Comment)))

	err := r.Add(0, NewSpan(4, theme.Literal))
	require.ErrorIs(t, err, ErrColumnOrder)
	var coe *ColumnOrderError
	require.ErrorAs(t, err, &coe)
	assert.Equal(t, ColumnOrderError{Line: 0, Column: 4, Previous: 4}, *coe)
	assert.Len(t, r.Line(0), 2)

	unchecked := NewResult()
	require.NoError(t, unchecked.Add(0, NewSpan(4, theme.Keyword)))
	assert.NoError(t, unchecked.Add(0, NewSpan(2, theme.Comment)), "production mode trusts the producer")
}

func TestNegativePositionsAreRejected(t *testing.T) {
	r := NewResult()
	assert.ErrorIs(t, r.Add(-1, NewSpan(0, theme.Keyword)), ErrInvalidRange)
	assert.ErrorIs(t, r.Add(0, NewSpan(-2, theme.Keyword)), ErrInvalidRange)
	assert.Zero(t, r.LineCount())
}

func TestDetermineFinalizes(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.AddIfNeeded(0, 0, theme.Keyword))
	r.Determine(0)

	assert.True(t, r.Finalized())
	assert.ErrorIs(t, r.AddIfNeeded(1, 0, theme.Comment), ErrFinalized)
	assert.Equal(t, 1, r.LineCount())
}

func TestDetermineOnEmptyResult(t *testing.T) {
	r := NewResult()
	r.Determine(2)
	for i := 0; i <= 2; i++ {
		assert.Equal(t, spans(0, theme.TextNormal), r.Line(i))
	}
}

func TestAddNormalIfNull(t *testing.T) {
	r := NewResult()
	r.Determine(-1)
	require.Zero(t, r.LineCount())

	r.AddNormalIfNull()
	assert.Equal(t, [][]Span{spans(0, theme.TextNormal)}, r.SpanMap())

	r.AddNormalIfNull()
	assert.Equal(t, 1, r.LineCount())
}

func TestSpanAfterAddNormalIfNullReplacesPlaceholder(t *testing.T) {
	r := NewResult(WithColumnChecks())
	r.AddNormalIfNull()

	require.NoError(t, r.Add(0, NewSpan(0, theme.Keyword)))
	require.NoError(t, r.Add(0, NewSpan(3, theme.Comment)))
	assert.Equal(t, []Span{NewSpan(0, theme.Keyword), NewSpan(3, theme.Comment)}, r.Line(0))
}

func TestSpanAfterAddNormalIfNullKeepsPlaceholderBeforeIt(t *testing.T) {
	r := NewResult()
	r.AddNormalIfNull()

	require.NoError(t, r.Add(0, NewSpan(2, theme.Keyword)))
	assert.Equal(t, []Span{NewSpan(0, theme.TextNormal), NewSpan(2, theme.Keyword)}, r.Line(0))
}

func TestSpanAt(t *testing.T) {
	r := NewResult()
	require.NoError(t, r.AddIfNeeded(0, 0, theme.Keyword))
	require.NoError(t, r.AddIfNeeded(0, 4, theme.TextNormal))
	require.NoError(t, r.AddIfNeeded(0, 9, theme.Literal))
	r.Determine(1)

	cases := []struct {
		col  int
		want theme.ColorID
	}{
		{0, theme.Keyword}, {3, theme.Keyword}, {4, theme.TextNormal}, {8, theme.TextNormal}, {9, theme.Literal}, {500, theme.Literal},
	}
	for _, tc := range cases {
		got, err := r.SpanAt(0, tc.col)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Color, "column %d", tc.col)
	}

	_, err := r.SpanAt(2, 0)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = r.SpanAt(0, -1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Nil(t, r.Line(7))
}

func TestBlocksKeepDiscoveryOrder(t *testing.T) {
	r := NewResult()
	inner := r.ObtainNewBlock()
	inner.StartLine, inner.StartColumn, inner.EndLine, inner.EndColumn = 2, 4, 3, 4
	outer := BlockLine{StartLine: 1, StartColumn: 0, EndLine: 5, EndColumn: 1, ID: 7}
	r.AddBlockLine(inner)
	r.AddBlockLine(outer)

	assert.Equal(t, []BlockLine{inner, outer}, r.Blocks())
	assert.Equal(t, math.MaxInt, r.SuppressSwitch())
	r.SetSuppressSwitch(3)
	assert.Equal(t, 3, r.SuppressSwitch())
}

func TestNavigationIsOpaque(t *testing.T) {
	r := NewResult()
	assert.Nil(t, r.Navigation())

	items := []NavigationItem{{Line: 9, Label: "main", Kind: "function"}, {Line: 1, Label: "z"}}
	r.SetNavigation(items)
	assert.Equal(t, items, r.Navigation())
}

func TestBlockLineValid(t *testing.T) {
	assert.True(t, BlockLine{StartLine: 0, StartColumn: 5, EndLine: 1, EndColumn: 0}.Valid())
	assert.True(t, BlockLine{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 3}.Valid())
	assert.False(t, BlockLine{StartLine: 2, StartColumn: 3, EndLine: 2, EndColumn: 3}.Valid())
	assert.False(t, BlockLine{StartLine: 3, EndLine: 2}.Valid())
	assert.Equal(t, "1:2-3:4", BlockLine{1, 2, 3, 4, 0}.String())
}

func cloneMap(m [][]Span) [][]Span {
	out := make([][]Span, len(m))
	for i, line := range m {
		out[i] = append([]Span(nil), line...)
	}
	return out
}
