// internal/buffer/slice_buffer.go
package buffer

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"
	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/types"
	"github.com/rivo/uniseg"
	sitter "github.com/smacker/go-tree-sitter"
)

// maxLineBytes bounds a single line when loading a file.
const maxLineBytes = 16 * 1024 * 1024

// SliceBuffer stores one byte slice per line, without newlines.
type SliceBuffer struct {
	mu       sync.RWMutex
	lines    [][]byte
	filePath string
	modified bool // Track if buffer has unsaved changes
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{
		lines: [][]byte{{}},
	}
}

// NewSliceBufferFromBytes creates a buffer holding content.
func NewSliceBufferFromBytes(content []byte) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.setContent(content)
	return sb
}

func (sb *SliceBuffer) setContent(content []byte) {
	parts := bytes.Split(content, []byte("\n"))
	lines := make([][]byte, len(parts))
	for i, p := range parts {
		lines[i] = append([]byte(nil), p...)
	}
	sb.lines = lines
}

// Load reads a file into the buffer. Replaces existing content.
// A missing file loads as an empty buffer bound to filePath.
func (sb *SliceBuffer) Load(filePath string) error {
	newLines, err := readLines(filePath)
	if err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.modified = false
	sb.lines = newLines
	sb.filePath = filePath
	return nil
}

// readLines splits a file into lines. A missing file reads as one empty line.
func readLines(filePath string) ([][]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return [][]byte{{}}, nil
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	newLines := [][]byte{}
	for scanner.Scan() {
		newLines = append(newLines, append([]byte(nil), scanner.Bytes()...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file '%s': %w", filePath, err)
	}
	if len(newLines) == 0 {
		newLines = append(newLines, []byte{})
	}
	return newLines, nil
}

// Lines returns the line slices. Callers must not modify them. Edits replace
// the slice instead of writing into it, so a returned slice stays valid.
func (sb *SliceBuffer) Lines() [][]byte {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.lines
}

func (sb *SliceBuffer) LineCount() int {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return len(sb.lines)
}

func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	if index < 0 || index >= len(sb.lines) {
		return nil, &analysis.InvalidRangeError{What: "line", Value: index, Min: 0, Max: len(sb.lines) - 1}
	}
	return sb.lines[index], nil
}

// Bytes joins the lines with '\n' into a fresh slice.
func (sb *SliceBuffer) Bytes() []byte {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return bytes.Join(sb.lines, []byte("\n"))
}

// Save writes the buffer content to filePath, or to the loaded path when
// filePath is empty.
func (sb *SliceBuffer) Save(filePath string) error {
	content := sb.Bytes()

	sb.mu.Lock()
	defer sb.mu.Unlock()
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	sb.filePath = path
	sb.modified = false
	return nil
}

// IsModified returns true if the buffer has unsaved changes.
func (sb *SliceBuffer) IsModified() bool {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.modified
}

func (sb *SliceBuffer) FilePath() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.filePath
}

// --- Buffer Modification Methods ---

// Insert inserts text at pos. The text may contain newlines.
func (sb *SliceBuffer) Insert(pos types.Position, text []byte) (types.EditInfo, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.insertLocked(pos, text)
}

func (sb *SliceBuffer) insertLocked(pos types.Position, text []byte) (types.EditInfo, error) {
	byteCol, err := sb.byteColumn(pos)
	if err != nil {
		return types.EditInfo{}, fmt.Errorf("invalid insert position: %w", err)
	}
	startIndex := sb.byteIndex(pos.Line, byteCol)
	if len(text) == 0 {
		return sb.editInfo(startIndex, startIndex, startIndex,
			pos.Line, byteCol, pos.Line, byteCol, pos.Line, byteCol)
	}
	sb.modified = true

	currentLine := sb.lines[pos.Line]
	insertLines := bytes.Split(text, []byte("\n"))

	tail := append([]byte(nil), currentLine[byteCol:]...)
	head := append(currentLine[:byteCol:byteCol], insertLines[0]...)

	endRow, endCol := pos.Line, byteCol+len(insertLines[0])
	if len(insertLines) == 1 {
		lines := append([][]byte(nil), sb.lines...)
		lines[pos.Line] = append(head, tail...)
		sb.lines = lines
	} else {
		newLines := make([][]byte, 0, len(insertLines)-1)
		for _, l := range insertLines[1:] {
			newLines = append(newLines, append([]byte(nil), l...))
		}
		last := len(newLines) - 1
		endRow, endCol = pos.Line+len(newLines), len(newLines[last])
		newLines[last] = append(newLines[last], tail...)

		rest := sb.lines[pos.Line+1:]
		lines := make([][]byte, 0, len(sb.lines)+len(newLines))
		lines = append(lines, sb.lines[:pos.Line]...)
		lines = append(lines, head)
		lines = append(lines, newLines...)
		lines = append(lines, rest...)
		sb.lines = lines
	}

	return sb.editInfo(startIndex, startIndex, startIndex+len(text),
		pos.Line, byteCol, pos.Line, byteCol, endRow, endCol)
}

// Delete removes text from start (inclusive) to end (exclusive). The
// positions may be given in either order.
func (sb *SliceBuffer) Delete(start, end types.Position) (types.EditInfo, error) {
	if end.Before(start) {
		start, end = end, start
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.deleteLocked(start, end)
}

// deleteLocked expects start <= end.
func (sb *SliceBuffer) deleteLocked(start, end types.Position) (types.EditInfo, error) {
	startCol, err := sb.byteColumn(start)
	if err != nil {
		return types.EditInfo{}, fmt.Errorf("invalid delete range: %w", err)
	}
	endCol, err := sb.byteColumn(end)
	if err != nil {
		return types.EditInfo{}, fmt.Errorf("invalid delete range: %w", err)
	}
	startIndex := sb.byteIndex(start.Line, startCol)
	endIndex := sb.byteIndex(end.Line, endCol)

	if startIndex != endIndex {
		sb.modified = true
		merged := append(sb.lines[start.Line][:startCol:startCol], sb.lines[end.Line][endCol:]...)
		lines := make([][]byte, 0, len(sb.lines)-(end.Line-start.Line))
		lines = append(lines, sb.lines[:start.Line]...)
		lines = append(lines, merged)
		lines = append(lines, sb.lines[end.Line+1:]...)
		sb.lines = lines
	}

	return sb.editInfo(startIndex, endIndex, startIndex,
		start.Line, startCol, end.Line, endCol, start.Line, startCol)
}

// byteColumn validates pos and returns its byte offset within the line.
func (sb *SliceBuffer) byteColumn(pos types.Position) (int, error) {
	if pos.Line < 0 || pos.Line >= len(sb.lines) {
		return 0, &analysis.InvalidRangeError{What: "line", Value: pos.Line, Min: 0, Max: len(sb.lines) - 1}
	}
	line := sb.lines[pos.Line]
	col, offset := 0, 0
	state := -1
	rest := line
	for col < pos.Col && len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.Step(rest, state)
		offset += len(cluster)
		col++
	}
	if pos.Col < 0 || col < pos.Col {
		return 0, &analysis.InvalidRangeError{What: "column", Value: pos.Col, Min: 0, Max: col}
	}
	return offset, nil
}

// byteIndex returns the document byte offset of (line, byteCol).
func (sb *SliceBuffer) byteIndex(line, byteCol int) int {
	index := byteCol
	for i := 0; i < line; i++ {
		index += len(sb.lines[i]) + 1
	}
	return index
}

func (sb *SliceBuffer) editInfo(startIndex, oldEndIndex, newEndIndex, startRow, startCol, oldRow, oldCol, newRow, newCol int) (types.EditInfo, error) {
	var (
		e    types.EditInfo
		errs []error
	)
	conv := func(v int) uint32 {
		u, err := safecast.Conv[uint32](v)
		if err != nil {
			errs = append(errs, err)
		}
		return u
	}
	e.StartIndex = conv(startIndex)
	e.OldEndIndex = conv(oldEndIndex)
	e.NewEndIndex = conv(newEndIndex)
	e.StartPosition = sitter.Point{Row: conv(startRow), Column: conv(startCol)}
	e.OldEndPosition = sitter.Point{Row: conv(oldRow), Column: conv(oldCol)}
	e.NewEndPosition = sitter.Point{Row: conv(newRow), Column: conv(newCol)}
	if len(errs) > 0 {
		return types.EditInfo{}, fmt.Errorf("edit exceeds tree-sitter range: %w", errors.Join(errs...))
	}
	return e, nil
}

// Ensure SliceBuffer satisfies the Buffer interface
var _ Buffer = (*SliceBuffer)(nil)
