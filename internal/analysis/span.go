// Package analysis holds the per-pass highlighting result: colored spans per
// line, structural blocks and an optional outline.
package analysis

import (
	"fmt"

	"github.com/bethropolis/tidemark/internal/theme"
)

// Span applies Color from Column up to the next span on the same line, or to
// the end of the line. Spans are values; copying one never aliases another line.
type Span struct {
	Column int
	Color  theme.ColorID
}

// NewSpan creates a span.
func NewSpan(column int, color theme.ColorID) Span {
	return Span{Column: column, Color: color}
}

// WithColumn returns a copy of s starting at column.
func (s Span) WithColumn(column int) Span {
	s.Column = column
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%s", s.Column, s.Color)
}

// normalSpan seeds forward extension when nothing was appended yet.
var normalSpan = Span{Column: 0, Color: theme.TextNormal}

// SpanIndexAt returns the index of the span covering column in a line's
// sequence, or -1 for an empty sequence.
func SpanIndexAt(spans []Span, column int) int {
	lo, hi := 0, len(spans)-1
	found := -1
	for lo <= hi {
		mid := (lo + hi) / 2
		if spans[mid].Column <= column {
			found = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if found < 0 && len(spans) > 0 {
		return 0
	}
	return found
}
