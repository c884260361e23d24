// internal/theme/loader.go
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidemark/internal/logger"
	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// fileTheme is the on-disk shape of a theme, shared by TOML and YAML.
//
//	name = "Solarized"
//	is_dark = true
//	extends = "VS2019"
//	[colors]
//	keyword = "#859900"
//	comment = "#ff586e75"
//	40 = "#268bd2"       # extension id
type fileTheme struct {
	Name    string            `toml:"name" yaml:"name"`
	IsDark  bool              `toml:"is_dark" yaml:"is_dark"`
	Extends string            `toml:"extends" yaml:"extends"`
	Colors  map[string]string `toml:"colors" yaml:"colors"`
}

// IsThemeFile reports whether path has an extension the loader understands.
func IsThemeFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadThemeFromFile parses a TOML or YAML theme file.
func LoadThemeFromFile(filePath string) (*Theme, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file '%s': %w", filePath, err)
	}

	var ft fileTheme
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".toml":
		metadata, err := toml.Decode(string(data), &ft)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML theme file '%s': %w", filePath, err)
		}
		if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
			logger.Warnf("Theme file '%s': Unrecognized keys: %v", filePath, undecoded)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ft); err != nil {
			return nil, fmt.Errorf("failed to parse YAML theme file '%s': %w", filePath, err)
		}
	default:
		return nil, fmt.Errorf("unsupported theme file '%s'", filePath)
	}

	if ft.Name == "" {
		ft.Name = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		logger.Debugf("Theme file '%s' missing 'name', using filename '%s'", filePath, ft.Name)
	}

	t, err := ft.toTheme()
	if err != nil {
		return nil, fmt.Errorf("theme file '%s': %w", filePath, err)
	}
	t.Source = filePath
	logger.Debugf("Successfully loaded theme '%s' from '%s' (%d overrides)", t.Name, filePath, len(t.Overrides))
	return t, nil
}

// toTheme converts the decoded file into an override list. Overrides of the
// extended built-in come first; the file's own colors follow in id order so
// application is deterministic.
func (ft fileTheme) toTheme() (*Theme, error) {
	t := &Theme{Name: ft.Name, IsDark: ft.IsDark}

	if ft.Extends != "" {
		base := builtinByName(ft.Extends)
		if base == nil {
			return nil, fmt.Errorf("unknown base theme '%s'", ft.Extends)
		}
		t.Overrides = append(t.Overrides, base.Overrides...)
		if !ft.IsDark {
			t.IsDark = base.IsDark
		}
	}

	own := make([]Override, 0, len(ft.Colors))
	for key, value := range ft.Colors {
		id, ok := LookupColorID(key)
		if !ok {
			logger.Warnf("Theme '%s': unknown color name '%s', skipping", ft.Name, key)
			continue
		}
		c, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("color '%s': %w", key, err)
		}
		own = append(own, Override{ID: id, Value: c})
	}
	sort.Slice(own, func(i, j int) bool { return own[i].ID < own[j].ID })
	t.Overrides = append(t.Overrides, own...)
	return t, nil
}

func builtinByName(name string) *Theme {
	for _, t := range Builtin() {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// ParseColor accepts #rgb, #rrggbb (opaque), #aarrggbb, 0xAARRGGBB,
// and "none"/"transparent" for Unset.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "none" || s == "transparent":
		return Unset, nil
	case strings.HasPrefix(s, "0x"):
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return Unset, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return Color(v), nil
	case strings.HasPrefix(s, "#") && len(s) == 9:
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return Unset, fmt.Errorf("invalid hex value '%s': %w", s, err)
		}
		return Color(v), nil
	case strings.HasPrefix(s, "#") && (len(s) == 7 || len(s) == 4):
		c, err := colorful.Hex(s)
		if err != nil {
			return Unset, fmt.Errorf("invalid hex color '%s': %w", s, err)
		}
		r, g, b := c.RGB255()
		return Color(0xff000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)), nil
	}
	return Unset, fmt.Errorf("unknown color format '%s', want #rrggbb, #aarrggbb or 0xaarrggbb", s)
}
