package config

import "time"

// Base application details
const AppName = "tidemark"
const Version = "0.1.0"
const ThemesDirName = "themes"
const DefaultConfigFileName = "config.toml" // Main config file

// Analysis
const DefaultDebounce = 65 * time.Millisecond
const DefaultTabWidth = 4

const DefaultThemeName = "Default"
