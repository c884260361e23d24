package highlighter

import (
	"strings"

	"github.com/bethropolis/tidemark/internal/highlighter/utils"
	"github.com/bethropolis/tidemark/internal/theme"
)

// captureColors maps capture names to color ids. Dotted names fall back to
// their parent: "function.call" uses "function" unless listed itself.
var captureColors = map[string]theme.ColorID{
	"comment":             theme.Comment,
	"keyword":             theme.Keyword,
	"operator":            theme.Operator,
	"string":              theme.Literal,
	"number":              theme.Literal,
	"constant":            theme.Literal,
	"boolean":             theme.Literal,
	"character":           theme.Literal,
	"variable":            theme.IdentifierVar,
	"variable.builtin":    theme.Keyword,
	"property":            theme.IdentifierVar,
	"type":                theme.IdentifierName,
	"namespace":           theme.IdentifierName,
	"function":            theme.FunctionName,
	"attribute":           theme.Annotation,
	"tag":                 theme.HTMLTag,
	"tag.attribute":       theme.AttributeName,
	"tag.attribute.value": theme.AttributeValue,
}

// ColorForCapture returns the color id for a query capture name.
func ColorForCapture(captureName string) (theme.ColorID, bool) {
	name := utils.CaptureNameToStyleName(captureName)
	for name != "" {
		if id, ok := captureColors[name]; ok {
			return id, true
		}
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 {
			break
		}
		name = name[:dot]
	}
	return 0, false
}
