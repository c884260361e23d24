// internal/types/position.go
package types

// Position is a 0-based line and column within a buffer. Columns count
// grapheme clusters.
type Position struct {
	Line int
	Col  int
}

// Before reports whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Col < q.Col)
}
