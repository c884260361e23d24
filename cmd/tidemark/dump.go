package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/completion"
)

// writeDump prints spans per line, then blocks, then the outline.
func writeDump(w io.Writer, res *analysis.Result) error {
	var sb strings.Builder
	sb.WriteString("spans:\n")
	for i, spans := range res.SpanMap() {
		fmt.Fprintf(&sb, "%4d:", i+1)
		for _, s := range spans {
			sb.WriteByte(' ')
			sb.WriteString(s.String())
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintf(&sb, "blocks: (suppress %s)\n", suppressLabel(res.SuppressSwitch()))
	for _, b := range res.Blocks() {
		fmt.Fprintf(&sb, "  %s\n", b)
	}

	if nav := res.Navigation(); nav != nil {
		sb.WriteString("outline:\n")
		for _, item := range nav {
			fmt.Fprintf(&sb, "  %d:%d %s %s\n", item.Line+1, item.Column+1, item.Kind, item.Label)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func suppressLabel(n int) string {
	if n == math.MaxInt {
		return "all"
	}
	return fmt.Sprint(n)
}

// writeCompletions prints one candidate per line: label, commit and cursor offset.
func writeCompletions(w io.Writer, res *analysis.Result, prefix string) error {
	for _, item := range completion.FromNavigation(res.Navigation(), prefix) {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", item.Label, item.Commit, item.CursorOffset, item.Desc); err != nil {
			return err
		}
	}
	return nil
}
