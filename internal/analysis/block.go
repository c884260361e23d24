package analysis

import "fmt"

// BlockLine marks a structural block (braces, an indented suite) from its
// start to its end position. Nesting depth is not stored.
type BlockLine struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// ID optionally links the block back to the construct that produced it.
	ID int
}

// Valid reports whether the block's start precedes its end.
func (b BlockLine) Valid() bool {
	if b.StartLine < 0 || b.StartColumn < 0 || b.EndColumn < 0 {
		return false
	}
	if b.StartLine == b.EndLine {
		return b.StartColumn < b.EndColumn
	}
	return b.StartLine < b.EndLine
}

// Contains reports whether line lies within the block's line range.
func (b BlockLine) Contains(line int) bool {
	return b.StartLine <= line && line <= b.EndLine
}

// Lines returns the number of lines between start and end.
func (b BlockLine) Lines() int {
	return b.EndLine - b.StartLine
}

func (b BlockLine) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", b.StartLine, b.StartColumn, b.EndLine, b.EndColumn)
}
