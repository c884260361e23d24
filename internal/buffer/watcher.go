package buffer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces the write bursts of an editor saving the file.
const DefaultWatchDebounce = 100 * time.Millisecond

// WatchFile reloads sb whenever its file changes on disk, until ctx is done.
// Each reload that changes the content dispatches one event.TypeBufferModified
// per edit, in order.
//
// The parent directory is watched so editors that save by renaming a temp
// file over the original are still seen.
func WatchFile(ctx context.Context, sb *SliceBuffer, bus *event.Manager, debounce time.Duration) error {
	path := sb.FilePath()
	if path == "" {
		return fmt.Errorf("buffer has no file to watch")
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return fmt.Errorf("watching directory of %s: %w", path, err)
	}

	go watchLoop(ctx, fsw, abs, sb, bus, debounce)
	return nil
}

func watchLoop(ctx context.Context, fsw *fsnotify.Watcher, abs string, sb *SliceBuffer, bus *event.Manager, debounce time.Duration) {
	defer fsw.Close()

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)

		case <-timer.C:
			reload(sb, bus)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warnf("File watcher: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func reload(sb *SliceBuffer, bus *event.Manager) {
	edits, err := sb.Reload()
	if err != nil {
		logger.Warnf("File watcher: reload failed: %v", err)
		return
	}
	logger.DebugTagf("buffer", "File watcher: %s changed, %d edits", sb.FilePath(), len(edits))
	for _, e := range edits {
		bus.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Edit: e})
	}
}
