package buffer

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tidemark/internal/types"
	"github.com/rivo/uniseg"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Reload re-reads the buffer's file and applies a line diff of the change as
// whole-line deletes and inserts. It returns the edits in application order,
// or none when the file is unchanged. Readers never observe a partly applied
// reload. The buffer is unmodified afterwards.
func (sb *SliceBuffer) Reload() ([]types.EditInfo, error) {
	path := sb.FilePath()
	if path == "" {
		return nil, fmt.Errorf("buffer has no file to reload")
	}
	newLines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()
	edits, err := sb.applyLinesLocked(newLines)
	if err != nil {
		return nil, fmt.Errorf("reloading '%s': %w", path, err)
	}
	sb.modified = false
	return edits, nil
}

// applyLinesLocked turns the buffer into newLines, one delete or insert per
// changed run of lines.
//
// The diff works on text where every line ends in '\n', so a buffer of n lines
// is n diff lines. Runs that touch the end of the document also take the
// newline before them, since the buffer's last line has none.
func (sb *SliceBuffer) applyLinesLocked(newLines [][]byte) ([]types.EditInfo, error) {
	oldText := linesText(sb.lines)
	newText := linesText(newLines)
	if oldText == newText {
		return nil, nil
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var edits []types.EditInfo
	line, count := 0, len(sb.lines)
	for _, d := range diffs {
		k := strings.Count(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += k
		case diffmatchpatch.DiffDelete:
			e, err := sb.deleteLines(line, k, count)
			if err != nil {
				return edits, err
			}
			edits = appendEdit(edits, e)
			count -= k
		case diffmatchpatch.DiffInsert:
			e, err := sb.insertLines(line, d.Text, count)
			if err != nil {
				return edits, err
			}
			edits = appendEdit(edits, e)
			line += k
			count += k
		}
	}
	return edits, nil
}

// appendEdit drops edits that change nothing, such as re-inserting the empty
// line a full delete leaves behind.
func appendEdit(edits []types.EditInfo, e types.EditInfo) []types.EditInfo {
	if e.OldEndIndex == e.StartIndex && e.NewEndIndex == e.StartIndex {
		return edits
	}
	return append(edits, e)
}

func linesText(lines [][]byte) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.Write(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// endOf returns the position after the last grapheme of line.
func (sb *SliceBuffer) endOf(line int) types.Position {
	return types.Position{Line: line, Col: uniseg.GraphemeClusterCount(string(sb.lines[line]))}
}

// deleteLines removes k diff lines starting at line, out of count.
func (sb *SliceBuffer) deleteLines(line, k, count int) (types.EditInfo, error) {
	switch {
	case line+k < count:
		return sb.deleteLocked(types.Position{Line: line}, types.Position{Line: line + k})
	case line > 0:
		return sb.deleteLocked(sb.endOf(line-1), sb.endOf(count-1))
	default:
		// Everything goes; the buffer keeps one empty line.
		return sb.deleteLocked(types.Position{}, sb.endOf(count-1))
	}
}

// insertLines inserts text, a run of '\n'-terminated lines, before line.
func (sb *SliceBuffer) insertLines(line int, text string, count int) (types.EditInfo, error) {
	trimmed := []byte(strings.TrimSuffix(text, "\n"))
	switch {
	case line < count:
		return sb.insertLocked(types.Position{Line: line}, []byte(text))
	case count > 0:
		return sb.insertLocked(sb.endOf(count-1), append([]byte("\n"), trimmed...))
	default:
		// The buffer holds the single empty line left by deleting everything.
		return sb.insertLocked(types.Position{}, trimmed)
	}
}
