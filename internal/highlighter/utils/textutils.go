// Package utils converts tree-sitter byte offsets into display columns.
package utils

import (
	"sort"

	"github.com/rivo/uniseg"
)

// ColumnStarts returns the byte offset at which each grapheme cluster of line
// begins. Index i is the byte offset of column i.
func ColumnStarts(line []byte) []int {
	starts := make([]int, 0, len(line))
	offset := 0
	state := -1
	rest := line
	for len(rest) > 0 {
		var cluster []byte
		cluster, rest, _, state = uniseg.Step(rest, state)
		starts = append(starts, offset)
		offset += len(cluster)
	}
	return starts
}

// ByteOffsetToColumn maps a byte offset to the column of the cluster that
// contains it. Offsets at or past the end of the line map to the column
// count.
func ByteOffsetToColumn(starts []int, lineLen, byteOffset int) int {
	if byteOffset <= 0 {
		return 0
	}
	if byteOffset >= lineLen {
		return len(starts)
	}
	// First cluster starting after byteOffset, minus one.
	return sort.SearchInts(starts, byteOffset+1) - 1
}

// CaptureNameToStyleName strips the leading '@' of a capture name.
func CaptureNameToStyleName(captureName string) string {
	if len(captureName) > 0 && captureName[0] == '@' {
		return captureName[1:]
	}
	return captureName
}
