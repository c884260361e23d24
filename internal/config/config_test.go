package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTabWidth, cfg.Analysis.TabWidth)
	assert.Equal(t, DefaultDebounce, cfg.Analysis.Debounce())
	assert.Equal(t, DefaultThemeName, cfg.Theme.Name)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.True(t, cfg.Analysis.WatchFile)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "debug"
enabled_tags = ["highlight"]

[analysis]
debounce_ms = 120
column_checks = true
tab_width = 8

[theme]
name = "VS2019"
dir = "/tmp/themes"
watch = true
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"highlight"}, cfg.Logger.EnabledTags)
	assert.Equal(t, 120*time.Millisecond, cfg.Analysis.Debounce())
	assert.True(t, cfg.Analysis.ColumnChecks)
	assert.Equal(t, 8, cfg.Analysis.TabWidth)
	assert.Equal(t, ThemeConfig{Name: "VS2019", Dir: "/tmp/themes", Watch: true}, cfg.Theme)
}

func TestValidateResetsBadValues(t *testing.T) {
	path := writeConfig(t, "[analysis]\ntab_width = -2\ndebounce_ms = 0\n[theme]\nname = \"\"\n")
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTabWidth, cfg.Analysis.TabWidth)
	assert.Equal(t, DefaultDebounce, cfg.Analysis.Debounce())
	assert.Equal(t, DefaultThemeName, cfg.Theme.Name)
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := writeConfig(t, "[analysis\n")
	cfg, err := Load(path, nil)
	assert.Error(t, err)
	require.NotNil(t, cfg, "defaults are still returned")
	assert.Equal(t, DefaultTabWidth, cfg.Analysis.TabWidth)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "[analysis]\ntab_width = 8\n[theme]\nname = \"GitHub\"\n")
	f := NewFlags("tidemark")
	args, err := f.Parse([]string{"-tabwidth", "2", "-theme", "Eclipse", "-log-tags", "a, b,,", "-column-checks", "-watch-file=false", "-dump", "main.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, args)

	cfg, err := Load(path, f)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Analysis.TabWidth)
	assert.Equal(t, "Eclipse", cfg.Theme.Name)
	assert.Equal(t, []string{"a", "b"}, cfg.Logger.EnabledTags)
	assert.True(t, cfg.Analysis.ColumnChecks)
	assert.False(t, cfg.Analysis.WatchFile)
	assert.True(t, *f.Dump)
	assert.True(t, f.IsSet("dump"))
	assert.False(t, f.IsSet("copy"))
}

func TestUnsetFlagsLeaveFileValues(t *testing.T) {
	path := writeConfig(t, "[analysis]\ntab_width = 8\n")
	f := NewFlags("tidemark")
	_, err := f.Parse(nil)
	require.NoError(t, err)

	cfg, err := Load(path, f)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Analysis.TabWidth)
}
