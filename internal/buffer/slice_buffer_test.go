package buffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a\n\nfunc f() {}\n"), 0o644))

	sb := NewSliceBuffer()
	require.NoError(t, sb.Load(path))
	assert.Equal(t, 3, sb.LineCount())
	assert.Equal(t, path, sb.FilePath())
	assert.False(t, sb.IsModified())

	line, err := sb.Line(2)
	require.NoError(t, err)
	assert.Equal(t, "func f() {}", string(line))

	_, err = sb.Line(3)
	assert.ErrorIs(t, err, analysis.ErrInvalidRange)

	_, err = sb.Insert(types.Position{Line: 1, Col: 0}, []byte("// x"))
	require.NoError(t, err)
	assert.True(t, sb.IsModified())

	out := filepath.Join(dir, "b.go")
	require.NoError(t, sb.Save(out))
	assert.False(t, sb.IsModified())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "package a\n// x\nfunc f() {}", string(data))
}

func TestLoadMissingFile(t *testing.T) {
	sb := NewSliceBuffer()
	require.NoError(t, sb.Load(filepath.Join(t.TempDir(), "new.txt")))
	assert.Equal(t, 1, sb.LineCount())
	assert.Empty(t, sb.Bytes())
}

func TestInsertSingleLine(t *testing.T) {
	sb := NewSliceBufferFromBytes([]byte("ab\ncd"))
	edit, err := sb.Insert(types.Position{Line: 1, Col: 1}, []byte("XY"))
	require.NoError(t, err)

	assert.Equal(t, "ab\ncXYd", string(sb.Bytes()))
	assert.Equal(t, types.EditInfo{
		StartIndex:     4,
		OldEndIndex:    4,
		NewEndIndex:    6,
		StartPosition:  sitter.Point{Row: 1, Column: 1},
		OldEndPosition: sitter.Point{Row: 1, Column: 1},
		NewEndPosition: sitter.Point{Row: 1, Column: 3},
	}, edit)
}

func TestInsertMultiLine(t *testing.T) {
	sb := NewSliceBufferFromBytes([]byte("head tail\nnext"))
	edit, err := sb.Insert(types.Position{Line: 0, Col: 5}, []byte("one\ntwo\nthr"))
	require.NoError(t, err)

	assert.Equal(t, "head one\ntwo\nthrtail\nnext", string(sb.Bytes()))
	assert.Equal(t, 4, sb.LineCount())
	assert.Equal(t, uint32(5), edit.StartIndex)
	assert.Equal(t, uint32(16), edit.NewEndIndex)
	assert.Equal(t, sitter.Point{Row: 2, Column: 3}, edit.NewEndPosition)
}

func TestInsertUsesGraphemeColumns(t *testing.T) {
	sb := NewSliceBufferFromBytes([]byte("e\u0301x"))
	edit, err := sb.Insert(types.Position{Line: 0, Col: 1}, []byte("-"))
	require.NoError(t, err)
	assert.Equal(t, "e\u0301-x", string(sb.Bytes()))
	assert.Equal(t, uint32(3), edit.StartPosition.Column)
}

func TestDeleteAcrossLines(t *testing.T) {
	sb := NewSliceBufferFromBytes([]byte("abc\ndef\nghi"))
	// Reversed positions are accepted.
	edit, err := sb.Delete(types.Position{Line: 2, Col: 1}, types.Position{Line: 0, Col: 2})
	require.NoError(t, err)

	assert.Equal(t, "abhi", string(sb.Bytes()))
	assert.Equal(t, types.EditInfo{
		StartIndex:     2,
		OldEndIndex:    9,
		NewEndIndex:    2,
		StartPosition:  sitter.Point{Row: 0, Column: 2},
		OldEndPosition: sitter.Point{Row: 2, Column: 1},
		NewEndPosition: sitter.Point{Row: 0, Column: 2},
	}, edit)
}

func TestInvalidPositionsAreRejected(t *testing.T) {
	sb := NewSliceBufferFromBytes([]byte("abc"))

	_, err := sb.Insert(types.Position{Line: 0, Col: 4}, []byte("x"))
	assert.ErrorIs(t, err, analysis.ErrInvalidRange)
	_, err = sb.Insert(types.Position{Line: 1, Col: 0}, []byte("x"))
	assert.ErrorIs(t, err, analysis.ErrInvalidRange)
	_, err = sb.Delete(types.Position{Line: 0, Col: -1}, types.Position{Line: 0, Col: 1})
	assert.ErrorIs(t, err, analysis.ErrInvalidRange)

	assert.Equal(t, "abc", string(sb.Bytes()))
	assert.False(t, sb.IsModified())

	// End of line is a valid position.
	_, err = sb.Insert(types.Position{Line: 0, Col: 3}, []byte("!"))
	assert.NoError(t, err)
}
