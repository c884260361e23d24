// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/tidemark/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger   logger.Config  `toml:"logger"`
	Analysis AnalysisConfig `toml:"analysis"`
	Theme    ThemeConfig    `toml:"theme"`
}

// AnalysisConfig controls highlighting passes.
type AnalysisConfig struct {
	DebounceMS   int  `toml:"debounce_ms"`
	ColumnChecks bool `toml:"column_checks"` // verify span column order in every pass
	TabWidth     int  `toml:"tab_width"`
	WatchFile    bool `toml:"watch_file"` // re-highlight when the file changes on disk
}

// Debounce returns DebounceMS as a duration.
func (a AnalysisConfig) Debounce() time.Duration {
	return time.Duration(a.DebounceMS) * time.Millisecond
}

// ThemeConfig selects and locates color themes.
type ThemeConfig struct {
	Name  string `toml:"name"`
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Analysis: AnalysisConfig{
			DebounceMS: int(DefaultDebounce / time.Millisecond),
			TabWidth:   DefaultTabWidth,
			WatchFile:  true,
		},
		Theme: ThemeConfig{
			Name: DefaultThemeName,
			Dir:  defaultThemesDir(),
		},
	}
}

func defaultThemesDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, ThemesDirName)
}

// DefaultConfigPath returns the config file location under the user config dir.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file leaves cfg as is.
func loadFromFile(filePath string, cfg *Config) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Analysis.TabWidth <= 0 {
		c.Analysis.TabWidth = defaults.Analysis.TabWidth
	}
	if c.Analysis.DebounceMS <= 0 {
		c.Analysis.DebounceMS = defaults.Analysis.DebounceMS
	}
	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.Theme.Name == "" {
		c.Theme.Name = defaults.Theme.Name
	}
	if c.Theme.Dir == "" {
		c.Theme.Dir = defaults.Theme.Dir
	}
}

// Load builds a configuration from defaults, the TOML file at configFilePath
// (the default location when empty) and flag overrides, in that order.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	path := configFilePath
	if path == "" {
		path = DefaultConfigPath()
	}
	var err error
	if path != "" {
		err = loadFromFile(path, cfg)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}
	cfg.validate()
	return cfg, err
}
