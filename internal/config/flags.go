// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/tidemark/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	fs *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	EnablePkgs     *string
	DisablePkgs    *string
	EnableFiles    *string
	DisableFiles   *string
	DebugLog       *bool

	TabWidth     *int
	DebounceMS   *int
	ColumnChecks *bool
	WatchFile    *bool
	Theme        *string
	ThemesDir    *string
	WatchThemes  *bool

	// Output modes
	Dump     *bool
	Copy     *bool
	Complete *string
}

// NewFlags defines the command-line flags on a new flag set.
func NewFlags(name string) *Flags {
	f := &Flags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := f.fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.DebugLog = fs.Bool("debug-log", false, "Enable verbose debug logging for the logger filtering system")

	f.TabWidth = fs.Int("tabwidth", 0, "Number of cells per tab - Overrides config file")
	f.DebounceMS = fs.Int("debounce", 0, "Milliseconds of quiet before a highlight pass - Overrides config file")
	f.ColumnChecks = fs.Bool("column-checks", false, "Verify span column order in every pass")
	f.WatchFile = fs.Bool("watch-file", true, "Re-highlight when the file changes on disk")
	f.Theme = fs.String("theme", "", "Theme name - Overrides config file")
	f.ThemesDir = fs.String("themes-dir", "", "Directory of TOML/YAML theme files - Overrides config file")
	f.WatchThemes = fs.Bool("watch-themes", false, "Reload themes when files in the themes directory change")

	f.Dump = fs.Bool("dump", false, "Print spans, blocks and outline instead of opening the viewer")
	f.Copy = fs.Bool("copy", false, "Copy the dump to the system clipboard")
	f.Complete = fs.String("complete", "", "Print outline completions starting with PREFIX")
	return f
}

// Parse parses args and returns the remaining non-flag arguments.
func (f *Flags) Parse(args []string) ([]string, error) {
	if err := f.fs.Parse(args); err != nil {
		return nil, err
	}
	return f.fs.Args(), nil
}

// IsSet reports whether the named flag was given on the command line.
func (f *Flags) IsSet(name string) bool {
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	// Visit only processes flags that were actually set
	f.fs.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		case "tabwidth":
			if *f.TabWidth > 0 {
				cfg.Analysis.TabWidth = *f.TabWidth
			}
		case "debounce":
			if *f.DebounceMS > 0 {
				cfg.Analysis.DebounceMS = *f.DebounceMS
			}
		case "column-checks":
			cfg.Analysis.ColumnChecks = *f.ColumnChecks
		case "watch-file":
			cfg.Analysis.WatchFile = *f.WatchFile
		case "theme":
			if *f.Theme != "" {
				cfg.Theme.Name = *f.Theme
			}
		case "themes-dir":
			if *f.ThemesDir != "" {
				cfg.Theme.Dir = *f.ThemesDir
			}
		case "watch-themes":
			cfg.Theme.Watch = *f.WatchThemes
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
