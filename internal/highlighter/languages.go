// internal/highlighter/languages.go
package highlighter

import (
	"embed"
	"sync"

	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/logger"

	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript"
	pythonsrc "github.com/smacker/go-tree-sitter/python"
)

//go:embed queries/*/*.scm
var embeddedQueries embed.FS

var registerOnce sync.Once

// RegisterLanguages registers the built-in grammars. Safe to call repeatedly.
func RegisterLanguages() {
	registerOnce.Do(func() {
		if lang.QueryFS == nil {
			lang.QueryFS = embeddedQueries
		}

		lang.Register(&lang.Language{
			Name:           "Go",
			TreeSitterLang: gosrc.GetLanguage(),
			Extensions:     []string{".go"},
			QueryPath:      "go",
			BlockTypes:     []string{"block", "field_declaration_list", "literal_value"},
			NavTypes: map[string]string{
				"function_declaration": "func",
				"method_declaration":   "method",
				"type_spec":            "type",
			},
		})

		lang.Register(&lang.Language{
			Name:           "Python",
			TreeSitterLang: pythonsrc.GetLanguage(),
			Extensions:     []string{".py", ".pyw"},
			QueryPath:      "python",
			BlockTypes:     []string{"block"},
			NavTypes: map[string]string{
				"function_definition": "def",
				"class_definition":    "class",
			},
		})

		lang.Register(&lang.Language{
			Name:           "JavaScript",
			TreeSitterLang: jssrc.GetLanguage(),
			Extensions:     []string{".js", ".mjs", ".cjs", ".jsx"},
			QueryPath:      "javascript",
			BlockTypes:     []string{"statement_block", "class_body", "object"},
			NavTypes: map[string]string{
				"function_declaration": "function",
				"class_declaration":    "class",
				"method_definition":    "method",
			},
		})

		logger.Debugf("Registration complete. Registered %d languages.", len(lang.GetAll()))
	})
}

// Detect returns the language for filePath, or nil if none is registered.
func Detect(filePath string) *lang.Language {
	RegisterLanguages()
	return lang.GetForFile(filePath)
}
