package theme

import "strings"

// Override replaces the default color of one id.
type Override struct {
	ID    ColorID
	Value Color
}

// Theme is a named list of overrides applied on top of the default table.
// Later overrides win over earlier ones for the same id.
type Theme struct {
	Name      string
	IsDark    bool
	Overrides []Override
	Source    string // file the theme was loaded from; empty for built-ins
}

// Resolve returns the full table for the theme: defaults, then overrides in order.
func (t *Theme) Resolve() map[ColorID]Color {
	out := make(map[ColorID]Color, len(defaultColors)+len(t.Overrides))
	for id, c := range defaultColors {
		out[id] = c
	}
	for _, o := range t.Overrides {
		out[o.ID] = o.Value
	}
	return out
}

// Missing lists reserved ids that the resolved table has no entry for.
// A non-empty result means the default table is incomplete.
func (t *Theme) Missing() []ColorID {
	table := t.Resolve()
	var missing []ColorID
	for id := MinReservedID; id <= MaxReservedID; id++ {
		if _, ok := table[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// key is the case-insensitive lookup name used by the manager.
func (t *Theme) key() string {
	return strings.ToLower(t.Name)
}

// Default is the base scheme: no overrides.
var Default = Theme{Name: "Default"}

// GitHub picked from the GitHub site.
var GitHub = Theme{
	Name: "GitHub",
	Overrides: []Override{
		{Annotation, 0xff6f42c1},
		{FunctionName, 0xff24292e},
		{IdentifierName, 0xff24292e},
		{IdentifierVar, 0xff24292e},
		{Literal, 0xff032f62},
		{Operator, 0xff005cc5},
		{Comment, 0xff6a737d},
		{Keyword, 0xffde3a49},
		{WholeBackground, 0xffffffff},
		{TextNormal, 0xff24292e},
		{LineNumberBackground, 0xffffffff},
		{LineNumber, 0xffbec0c1},
		{SelectionInsert, 0xffc7edcc},
		{SelectionHandle, 0xffc7edcc},
	},
}

// Eclipse picked from Eclipse IDE for Java Developers 2019-12.
var Eclipse = Theme{
	Name: "Eclipse",
	Overrides: []Override{
		{Annotation, 0xff646464},
		{FunctionName, 0xff000000},
		{IdentifierName, 0xff000000},
		{IdentifierVar, 0xffb8633e},
		{Literal, 0xff2a00ff},
		{Operator, 0xff3a0000},
		{Comment, 0xff3f7f5f},
		{Keyword, 0xff7f0074},
		{WholeBackground, 0xffffffff},
		{TextNormal, 0xff000000},
		{LineNumberBackground, 0xffffffff},
		{LineNumber, 0xff787878},
		{SelectedTextBackground, 0xff3399ff},
		{MatchedTextBackground, 0xffd4d4d4},
		{CurrentLine, 0xffe8f2fe},
		{SelectionInsert, 0xff03ebeb},
		{SelectionHandle, 0xff03ebeb},
		{BlockLine, 0xffd8d8d8},
		{BlockLineCurrent, 0},
	},
}

// VS2019 picked from Visual Studio 2019.
var VS2019 = Theme{
	Name:   "VS2019",
	IsDark: true,
	Overrides: []Override{
		{Annotation, 0xff4ec9b0},
		{FunctionName, 0xffdcdcdc},
		{IdentifierName, 0xff4ec9b0},
		{IdentifierVar, 0xffdcdcaa},
		{Literal, 0xffd69d85},
		{Operator, 0xffdcdcdc},
		{Comment, 0xff57a64a},
		{Keyword, 0xff569cd6},
		{WholeBackground, 0xff1e1e1e},
		{TextNormal, 0xffdcdcdc},
		{LineNumberBackground, 0xff1e1e1e},
		{LineNumber, 0xff2b9eaf},
		{LineDivider, 0xff2b9eaf},
		{ScrollBarThumb, 0xff3e3e42},
		{ScrollBarThumbPressed, 0xff9e9e9e},
		{SelectedTextBackground, 0xff3676b8},
		{MatchedTextBackground, 0xff653306},
		{CurrentLine, 0xff464646},
		{SelectionInsert, 0xffffffff},
		{SelectionHandle, 0xffffffff},
		{BlockLine, 0xff717171},
		{BlockLineCurrent, 0},
		{NonPrintableChar, 0xffdddddd},
	},
}

// Builtin returns the themes compiled into the binary.
func Builtin() []*Theme {
	return []*Theme{&Default, &GitHub, &Eclipse, &VS2019}
}
