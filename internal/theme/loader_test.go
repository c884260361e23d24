package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOMLTheme(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sol.toml", `
name = "Solarized"
is_dark = true
[colors]
keyword = "#859900"
comment = "#80586e75"
40 = "0xff268bd2"
`)
	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Solarized", th.Name)
	assert.True(t, th.IsDark)
	assert.Equal(t, path, th.Source)
	assert.Equal(t, []Override{
		{Keyword, 0xff859900},
		{Comment, 0x80586e75},
		{ColorID(40), 0xff268bd2},
	}, th.Overrides)
}

func TestLoadYAMLThemeExtendsBuiltin(t *testing.T) {
	path := writeFile(t, t.TempDir(), "night.yaml", `
extends: vs2019
colors:
  keyword: "#fff"
  color_42: none
`)
	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "night", th.Name, "file name is the fallback name")
	assert.True(t, th.IsDark, "dark flag inherited from the base")
	require.Len(t, th.Overrides, len(VS2019.Overrides)+2)

	s := NewSchemeFor(th)
	assert.Equal(t, Color(0xffffffff), s.Color(Keyword), "file colors win over the base")
	assert.Equal(t, Color(0xff57a64a), s.Color(Comment), "base colors are kept")
}

func TestLoadThemeErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadThemeFromFile(writeFile(t, dir, "bad.toml", `name = `))
	assert.Error(t, err)

	_, err = LoadThemeFromFile(writeFile(t, dir, "badcolor.toml", "[colors]\nkeyword = \"blue\"\n"))
	assert.ErrorContains(t, err, "keyword")

	_, err = LoadThemeFromFile(writeFile(t, dir, "base.toml", "extends = \"nope\"\n"))
	assert.ErrorContains(t, err, "unknown base theme")

	_, err = LoadThemeFromFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestUnknownColorNamesAreSkipped(t *testing.T) {
	path := writeFile(t, t.TempDir(), "typo.toml", "[colors]\nkeywrod = \"#000000\"\n")
	th, err := LoadThemeFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, th.Overrides)
}

func TestParseColor(t *testing.T) {
	cases := map[string]Color{
		"#000":          0xff000000,
		"#ff0000":       0xffff0000,
		"#FF0000":       0xffff0000,
		"#10000000":     0x10000000,
		"0xdd000000":    0xdd000000,
		"none":          Unset,
		" transparent ": Unset,
	}
	for in, want := range cases {
		got, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "red", "#12", "#gggggg", "0xzz"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}
