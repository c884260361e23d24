// Package theme holds the color registry used to paint analysis results.
package theme

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ColorID identifies a semantic highlighting or UI category.
// Ids outside the reserved range are free for extension lexers.
type ColorID int

// Reserved ids. Values 1..31 are kept stable for existing theme definitions.
// HTMLTag shared 31 with NonPrintableChar in older numbering and now sits at
// 32, which moves AttributeName from 32 to 33 and AttributeValue from 33 to
// 34. Theme files that name colors are unaffected; numeric keys for the
// attribute colors must use the new ids.
const (
	LineDivider ColorID = iota + 1
	LineNumber
	LineNumberBackground
	WholeBackground
	TextNormal
	SelectedTextBackground
	SelectionInsert
	SelectionHandle
	CurrentLine
	Underline
	ScrollBarThumb
	ScrollBarThumbPressed
	ScrollBarTrack
	BlockLine
	BlockLineCurrent
	LineNumberPanel
	LineNumberPanelText
	LineBlockLabel // no longer drawn, kept so old themes still decode
	AutoCompPanelBackground
	AutoCompPanelCorner

	// Syntax highlight colors
	Keyword
	Comment
	Operator
	Literal
	IdentifierVar
	IdentifierName
	FunctionName
	Annotation

	MatchedTextBackground
	TextSelected
	NonPrintableChar

	HTMLTag
	AttributeName
	AttributeValue
)

const (
	// MinReservedID is the smallest pre-defined color id.
	MinReservedID = LineDivider
	// MaxReservedID is the largest pre-defined color id.
	MaxReservedID = AttributeValue
)

var colorNames = map[ColorID]string{
	LineDivider:             "line_divider",
	LineNumber:              "line_number",
	LineNumberBackground:    "line_number_background",
	WholeBackground:         "whole_background",
	TextNormal:              "text_normal",
	SelectedTextBackground:  "selected_text_background",
	SelectionInsert:         "selection_insert",
	SelectionHandle:         "selection_handle",
	CurrentLine:             "current_line",
	Underline:               "underline",
	ScrollBarThumb:          "scroll_bar_thumb",
	ScrollBarThumbPressed:   "scroll_bar_thumb_pressed",
	ScrollBarTrack:          "scroll_bar_track",
	BlockLine:               "block_line",
	BlockLineCurrent:        "block_line_current",
	LineNumberPanel:         "line_number_panel",
	LineNumberPanelText:     "line_number_panel_text",
	LineBlockLabel:          "line_block_label",
	AutoCompPanelBackground: "auto_comp_panel_background",
	AutoCompPanelCorner:     "auto_comp_panel_corner",
	Keyword:                 "keyword",
	Comment:                 "comment",
	Operator:                "operator",
	Literal:                 "literal",
	IdentifierVar:           "identifier_var",
	IdentifierName:          "identifier_name",
	FunctionName:            "function_name",
	Annotation:              "annotation",
	MatchedTextBackground:   "matched_text_background",
	TextSelected:            "text_selected",
	NonPrintableChar:        "non_printable_char",
	HTMLTag:                 "html_tag",
	AttributeName:           "attribute_name",
	AttributeValue:          "attribute_value",
}

var colorsByName = func() map[string]ColorID {
	m := make(map[string]ColorID, len(colorNames))
	for id, name := range colorNames {
		m[name] = id
	}
	return m
}()

// String returns the snake_case name of a reserved id, or "color_<n>".
func (id ColorID) String() string {
	if name, ok := colorNames[id]; ok {
		return name
	}
	return fmt.Sprintf("color_%d", int(id))
}

// Reserved reports whether id is in the pre-defined range.
func (id ColorID) Reserved() bool {
	return id >= MinReservedID && id <= MaxReservedID
}

// LookupColorID resolves a reserved name ("keyword") or a numeric
// extension id ("40", "color_40").
func LookupColorID(name string) (ColorID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if id, ok := colorsByName[name]; ok {
		return id, true
	}
	name = strings.TrimPrefix(name, "color_")
	var n int
	if _, err := fmt.Sscanf(name, "%d", &n); err != nil || n <= 0 || fmt.Sprint(n) != name {
		return 0, false
	}
	return ColorID(n), true
}

// Color is a packed 0xAARRGGBB value. Zero means unset (transparent).
type Color uint32

// Unset is returned for ids that have no stored value.
const Unset Color = 0

// ARGB splits the packed value.
func (c Color) ARGB() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Hex formats the color as #aarrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// Tcell converts to a terminal color. Fully transparent colors map to
// tcell.ColorDefault so the terminal's own color shows through.
func (c Color) Tcell() tcell.Color {
	a, r, g, b := c.ARGB()
	if a == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// defaultColors is the base table every theme starts from.
var defaultColors = map[ColorID]Color{
	LineDivider:             0xffdddddd,
	LineNumber:              0xff808080,
	LineNumberBackground:    0xfff0f0f0,
	WholeBackground:         0xffffffff,
	TextNormal:              0xff333333,
	SelectedTextBackground:  0xff9e9e9e,
	SelectionInsert:         0xff03ebeb,
	SelectionHandle:         0xff03ebff,
	CurrentLine:             0x10000000,
	Underline:               0xff000000,
	ScrollBarThumb:          0xffd8d8d8,
	ScrollBarThumbPressed:   0xff27292a,
	ScrollBarTrack:          0,
	BlockLine:               0xffdddddd,
	BlockLineCurrent:        0xff999999,
	LineNumberPanel:         0xdd000000,
	LineNumberPanelText:     0xffffffff,
	LineBlockLabel:          0,
	AutoCompPanelBackground: 0xffffffff,
	AutoCompPanelCorner:     0xffffffff,
	Keyword:                 0xff2196f3,
	Comment:                 0xffa8a8a8,
	Operator:                0xff0066d6,
	Literal:                 0xff008080,
	IdentifierVar:           0xff333333,
	IdentifierName:          0xff333333,
	FunctionName:            0xff333333,
	Annotation:              0xff03a9f4,
	MatchedTextBackground:   0xffffff00,
	TextSelected:            0xffffffff,
	NonPrintableChar:        0xff505050,
	HTMLTag:                 0xff0066d6,
	AttributeName:           0xff9c27b0,
	AttributeValue:          0xff008080,
}

// DefaultColor returns the built-in default for a reserved id.
func DefaultColor(id ColorID) (Color, bool) {
	c, ok := defaultColors[id]
	return c, ok
}
