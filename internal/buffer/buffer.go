// internal/buffer/buffer.go
package buffer

import "github.com/bethropolis/tidemark/internal/types"

// Reader is the read side consumed by analysis passes and the viewer.
// Columns in positions count grapheme clusters.
type Reader interface {
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	Bytes() []byte
	FilePath() string
}

// Buffer is a Reader that can be loaded, edited and saved.
// Implementations are safe for one writer and concurrent readers.
type Buffer interface {
	Reader
	Load(filePath string) error
	// Insert and Delete describe the change for incremental reparsing.
	Insert(pos types.Position, text []byte) (types.EditInfo, error)
	Delete(start, end types.Position) (types.EditInfo, error)
	Save(filePath string) error
	IsModified() bool
}
