package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileChangesAreReHighlighted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live.go")
	require.NoError(t, os.WriteFile(path, []byte("package live\n\nvar x = 1\n"), 0o644))

	buf := buffer.NewSliceBuffer()
	require.NoError(t, buf.Load(path))
	bus := event.NewManager()
	completed := make(chan event.AnalysisCompletedData, 8)
	bus.Subscribe(event.TypeAnalysisCompleted, func(e event.Event) bool {
		select {
		case completed <- e.Data.(event.AnalysisCompletedData):
		default:
		}
		return false
	})

	cfg := config.NewDefaultConfig().Analysis
	cfg.DebounceMS = 10
	cfg.ColumnChecks = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hl, stop, err := startAnalysis(ctx, cfg, buf, bus, nil, true)
	require.NoError(t, err)
	defer stop()

	first := <-completed
	assert.Equal(t, 3, hl.Current().LineCount())

	require.NoError(t, os.WriteFile(path, []byte("package live\n\n// note\nvar x = 1\n"), 0o644))

	require.Eventually(t, func() bool {
		res := hl.Current()
		if res.LineCount() != 4 {
			return false
		}
		span, err := res.SpanAt(2, 0)
		return err == nil && span.Color == theme.Comment
	}, 5*time.Second, 10*time.Millisecond, "file change was not re-highlighted")

	next := <-completed
	assert.Greater(t, next.Pass, first.Pass)
}

func TestHeadlessAnalysisDoesNotWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.go")
	require.NoError(t, os.WriteFile(path, []byte("package still\n"), 0o644))

	buf := buffer.NewSliceBuffer()
	require.NoError(t, buf.Load(path))
	cfg := config.NewDefaultConfig().Analysis
	cfg.DebounceMS = 10

	hl, stop, err := startAnalysis(context.Background(), cfg, buf, event.NewManager(), nil, false)
	require.NoError(t, err)
	defer stop()
	first := hl.Current()

	require.NoError(t, os.WriteFile(path, []byte("package moved\n\nvar y = 2\n"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Same(t, first, hl.Current())
}
