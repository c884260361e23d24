package lang

import (
	"fmt"
	"io/fs"

	"github.com/bethropolis/tidemark/internal/logger"
	sitter "github.com/smacker/go-tree-sitter"
)

// QueryFS is the filesystem highlight queries are read from.
var QueryFS fs.FS

// Language describes one tree-sitter grammar and how its tree maps onto an
// analysis result.
type Language struct {
	// Name is the display name of the language
	Name string

	// TreeSitterLang is the tree-sitter language instance
	TreeSitterLang *sitter.Language

	// Extensions maps file extensions to this language
	Extensions []string

	// QueryPath is the directory under queries/ holding highlights.scm
	QueryPath string

	// BlockTypes are node types reported as blocks when they span lines.
	BlockTypes []string

	// NavTypes are declaration node types listed in the outline, keyed to
	// the kind shown next to them.
	NavTypes map[string]string
}

// GetQuery loads the highlight query source for this language.
func (l *Language) GetQuery() ([]byte, error) {
	if QueryFS == nil {
		return nil, fmt.Errorf("query filesystem not set")
	}
	if l.QueryPath == "" {
		return nil, fmt.Errorf("no query path defined for language %s", l.Name)
	}

	queryPath := fmt.Sprintf("queries/%s/highlights.scm", l.QueryPath)
	query, err := fs.ReadFile(QueryFS, queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load query for language %s: %w", l.Name, err)
	}
	logger.DebugTagf("highlighter", "Loaded query from %s for %s (%d bytes)", queryPath, l.Name, len(query))
	return query, nil
}

// IsBlock reports whether nodeType is one of the language's block types.
func (l *Language) IsBlock(nodeType string) bool {
	for _, t := range l.BlockTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}
