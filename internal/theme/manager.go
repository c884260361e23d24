// internal/theme/manager.go
package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/logger"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds parallel theme file parsing.
const maxConcurrentLoads = 4

// Manager holds loaded themes and applies the active one to a scheme.
type Manager struct {
	// applyMu orders scheme application so the scheme ends on the active theme.
	applyMu   sync.Mutex
	mutex     sync.RWMutex
	themes    map[string]*Theme // lowercase name -> theme
	active    *Theme
	scheme    *Scheme
	themesDir string
	bus       *event.Manager
}

// NewManager creates a manager with the built-in themes registered and
// Default applied to scheme. bus may be nil.
func NewManager(scheme *Scheme, themesDir string, bus *event.Manager) *Manager {
	m := &Manager{
		themes:    make(map[string]*Theme),
		scheme:    scheme,
		themesDir: themesDir,
		bus:       bus,
	}
	for _, t := range Builtin() {
		m.themes[t.key()] = t
		logger.Debugf("Loaded built-in theme: %s", t.Name)
	}
	m.active = &Default
	scheme.Apply(m.active)
	return m
}

// Dir returns the directory themes are loaded from.
func (m *Manager) Dir() string {
	return m.themesDir
}

// LoadThemesFromDir parses every theme file in the themes directory.
// Files that fail to parse are skipped with a warning. A missing directory is
// not an error.
func (m *Manager) LoadThemesFromDir(ctx context.Context) error {
	if m.themesDir == "" {
		return errors.New("theme directory path is not set")
	}

	entries, err := os.ReadDir(m.themesDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infof("Theme directory '%s' does not exist. No custom themes loaded.", m.themesDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme directory '%s': %w", m.themesDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && IsThemeFile(entry.Name()) {
			paths = append(paths, filepath.Join(m.themesDir, entry.Name()))
		}
	}
	sort.Strings(paths)

	loaded := make([]*Theme, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := LoadThemeFromFile(path)
			if err != nil {
				logger.Warnf("Failed to load theme from '%s': %v", path, err)
				return nil
			}
			loaded[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	m.mutex.Lock()
	count := 0
	for _, t := range loaded {
		if t == nil {
			continue
		}
		if existing, ok := m.themes[t.key()]; ok {
			logger.Warnf("Theme '%s' from '%s' overrides existing theme '%s'", t.Name, t.Source, existing.Name)
		}
		m.themes[t.key()] = t
		count++
	}
	if m.active != nil {
		if reloaded, ok := m.themes[m.active.key()]; ok {
			m.active = reloaded
		}
	}
	active := m.active
	m.mutex.Unlock()

	logger.Infof("Loaded %d custom themes from %s.", count, m.themesDir)

	// A reload of the active theme's file repaints only what changed.
	if active != nil {
		m.scheme.Apply(active)
	}
	return nil
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.active
}

// Scheme returns the scheme the manager paints into.
func (m *Manager) Scheme() *Scheme {
	return m.scheme
}

// SetTheme activates a theme by name (case-insensitive).
func (m *Manager) SetTheme(name string) error {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	m.mutex.Lock()
	t, ok := m.themes[(&Theme{Name: name}).key()]
	if !ok {
		m.mutex.Unlock()
		return fmt.Errorf("theme '%s' not found", name)
	}
	changed := m.active != t
	m.active = t
	m.mutex.Unlock()

	if !changed {
		logger.Debugf("Theme '%s' already active, no change needed", name)
		return nil
	}

	m.scheme.Apply(t)
	logger.Infof("Active theme set to: %s", t.Name)
	if m.bus != nil {
		m.bus.Dispatch(event.TypeThemeChanged, event.ThemeChangedData{Name: t.Name})
	}
	return nil
}

// ListThemes returns the names of all loaded themes, sorted.
func (m *Manager) ListThemes() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	names := make([]string, 0, len(m.themes))
	for _, t := range m.themes {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a theme by name (case-insensitive).
func (m *Manager) GetTheme(name string) (*Theme, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	t, ok := m.themes[(&Theme{Name: name}).key()]
	return t, ok
}
