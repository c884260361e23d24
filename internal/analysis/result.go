package analysis

import (
	"math"

	"github.com/bethropolis/tidemark/internal/theme"
)

const (
	initialLineCapacity  = 2048
	initialBlockCapacity = 1024
)

// Result is the outcome of one analysis pass.
//
// A single producer fills it in increasing line order, then calls Determine.
// From then on the result is a read-only snapshot that any number of readers
// may share; the next pass builds a new Result instead of editing this one.
type Result struct {
	spanMap    [][]Span
	blocks     []BlockLine
	navigation []NavigationItem

	last    Span
	hasLast bool

	suppressSwitch int
	checkColumns   bool
	finalized      bool
	placeholder    bool // the only line holds AddNormalIfNull's span

	// Extra carries producer-specific data alongside the result.
	Extra any
}

// Option configures a Result.
type Option func(*Result)

// WithColumnChecks makes Add reject spans whose column does not increase
// on their line. Production passes skip the check.
func WithColumnChecks() Option {
	return func(r *Result) { r.checkColumns = true }
}

// WithCapacity presizes the line table for a document of n lines.
func WithCapacity(n int) Option {
	return func(r *Result) {
		if n > 0 {
			r.spanMap = make([][]Span, 0, n)
		}
	}
}

// NewResult creates an empty result.
func NewResult(opts ...Option) *Result {
	r := &Result{
		spanMap:        make([][]Span, 0, initialLineCapacity),
		blocks:         make([]BlockLine, 0, initialBlockCapacity),
		suppressSwitch: math.MaxInt,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddIfNeeded appends a span at (line, column) unless color equals the color
// of the most recently appended span, on any line.
func (r *Result) AddIfNeeded(line, column int, color theme.ColorID) error {
	if r.hasLast && r.last.Color == color {
		return nil
	}
	return r.Add(line, NewSpan(column, color))
}

// Add appends span to line.
//
// Lines must not decrease between calls. Moving forward fills every skipped
// line with a copy of the last span moved to column 0, so every line resolves
// to a color. A span at column 0 replaces whatever that fill put on its line.
// Columns on one line must increase; that is only verified under
// WithColumnChecks.
func (r *Result) Add(line int, span Span) error {
	if r.finalized {
		return ErrFinalized
	}
	if line < 0 {
		return &InvalidRangeError{What: "line", Value: line, Min: 0, Max: -1}
	}
	if span.Column < 0 {
		return &InvalidRangeError{What: "column", Value: span.Column, Min: 0, Max: -1}
	}

	mapLine := len(r.spanMap) - 1
	switch {
	case line == mapLine:
		spans := r.spanMap[line]
		if r.placeholder && span.Column == 0 {
			spans = spans[:0]
		}
		if r.checkColumns && len(spans) > 0 {
			if prev := spans[len(spans)-1].Column; span.Column <= prev {
				return &ColumnOrderError{Line: line, Column: span.Column, Previous: prev}
			}
		}
		r.spanMap[line] = append(spans, span)
	case line > mapLine:
		r.extendTo(line)
		if span.Column == 0 {
			r.spanMap[line] = r.spanMap[line][:0]
		}
		r.spanMap[line] = append(r.spanMap[line], span)
	default:
		return &OutOfOrderError{Line: line, Tail: mapLine}
	}

	r.last = span
	r.hasLast = true
	r.placeholder = false
	return nil
}

// extendTo appends forward-extended lines until line exists.
func (r *Result) extendTo(line int) {
	seed := normalSpan
	if r.hasLast {
		seed = r.last
	}
	seed = seed.WithColumn(0)
	for len(r.spanMap) <= line {
		// Room for a couple of spans so the common append does not reallocate.
		spans := make([]Span, 1, 4)
		spans[0] = seed
		r.spanMap = append(r.spanMap, spans)
	}
}

// Determine pads the map through lastLine and finalizes the result.
// Call it once, after the producer is done.
func (r *Result) Determine(lastLine int) {
	if lastLine >= 0 {
		r.extendTo(lastLine)
	}
	r.finalized = true
}

// Finalized reports whether Determine was called.
func (r *Result) Finalized() bool {
	return r.finalized
}

// AddNormalIfNull ensures the map holds at least one line. A span later added
// at column 0 of that line replaces the placeholder.
func (r *Result) AddNormalIfNull() {
	if len(r.spanMap) == 0 {
		r.spanMap = append(r.spanMap, []Span{normalSpan})
		r.placeholder = true
	}
}

// ObtainNewBlock returns a zeroed block for the producer to fill.
func (r *Result) ObtainNewBlock() BlockLine {
	return BlockLine{}
}

// AddBlockLine appends a block. Blocks are kept in the order they were
// discovered; an enclosing block may follow its children.
func (r *Result) AddBlockLine(block BlockLine) {
	r.blocks = append(r.blocks, block)
}

// Blocks returns the blocks in discovery order. Callers must not modify it.
func (r *Result) Blocks() []BlockLine {
	return r.blocks
}

// SuppressSwitch returns the block search hint. math.MaxInt means "search everything".
func (r *Result) SuppressSwitch() int {
	return r.suppressSwitch
}

// SetSuppressSwitch tells block searches they may stop after n non-matching
// blocks once a containing block was found. It is the block count of the
// largest top-level block including its descendants. An undersized value
// only makes searches less complete. Leave it unset when unsure.
func (r *Result) SetSuppressSwitch(n int) {
	r.suppressSwitch = n
}

// Navigation returns the outline, or nil if the producer set none.
func (r *Result) Navigation() []NavigationItem {
	return r.navigation
}

// SetNavigation replaces the outline.
func (r *Result) SetNavigation(items []NavigationItem) {
	r.navigation = items
}

// SpanMap returns the per-line span sequences. Callers must not modify it.
func (r *Result) SpanMap() [][]Span {
	return r.spanMap
}

// LineCount returns the number of lines in the map.
func (r *Result) LineCount() int {
	return len(r.spanMap)
}

// Line returns the spans of line i, or nil if i is outside the map.
func (r *Result) Line(i int) []Span {
	if i < 0 || i >= len(r.spanMap) {
		return nil
	}
	return r.spanMap[i]
}

// SpanAt returns the span that colors (line, column).
func (r *Result) SpanAt(line, column int) (Span, error) {
	if line < 0 || line >= len(r.spanMap) {
		return Span{}, &InvalidRangeError{What: "line", Value: line, Min: 0, Max: len(r.spanMap) - 1}
	}
	if column < 0 {
		return Span{}, &InvalidRangeError{What: "column", Value: column, Min: 0, Max: -1}
	}
	spans := r.spanMap[line]
	i := SpanIndexAt(spans, column)
	if i < 0 {
		return normalSpan, nil
	}
	return spans[i], nil
}
