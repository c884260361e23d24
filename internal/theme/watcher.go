package theme

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of writes from editors saving a theme file.
const DefaultWatchDebounce = 250 * time.Millisecond

// Watch reloads the themes directory whenever a theme file changes, until ctx
// is done. The active theme is re-applied after each reload, so the scheme's
// listener sees exactly the ids whose color changed.
func (m *Manager) Watch(ctx context.Context, debounce time.Duration) error {
	if m.themesDir == "" {
		return fmt.Errorf("theme directory path is not set")
	}
	if err := os.MkdirAll(m.themesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create theme dir: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(m.themesDir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching directory %s: %w", m.themesDir, err)
	}

	go m.watchLoop(ctx, fsw, debounce)
	return nil
}

func (m *Manager) watchLoop(ctx context.Context, fsw *fsnotify.Watcher, debounce time.Duration) {
	defer fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !isRelevantEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			logger.DebugTagf("theme", "Theme watcher: change detected in %s, reloading", m.themesDir)
			if err := m.LoadThemesFromDir(ctx); err != nil {
				logger.Warnf("Theme watcher: reload failed: %v", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warnf("Theme watcher: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

// isRelevantEvent keeps writes and creates of theme files.
func isRelevantEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return IsThemeFile(ev.Name)
}
