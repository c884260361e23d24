package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/render"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/gdamore/tcell/v2"
)

const statusBarHeight = 1

// Snapshots provides the latest analysis result.
type Snapshots interface {
	Current() *analysis.Result
}

// Viewer is a read-only document view: scrolling, theme switching and a
// status bar.
type Viewer struct {
	tui     *TUI
	view    *render.View
	buf     buffer.Reader
	results Snapshots
	themes  *theme.Manager

	mu     sync.Mutex
	status string
}

// NewViewer creates a viewer. themes may be nil.
func NewViewer(t *TUI, view *render.View, buf buffer.Reader, results Snapshots, themes *theme.Manager) *Viewer {
	return &Viewer{tui: t, view: view, buf: buf, results: results, themes: themes}
}

// SetStatus replaces the status message and wakes the loop. Safe from any
// goroutine.
func (v *Viewer) SetStatus(msg string) {
	v.mu.Lock()
	v.status = msg
	v.mu.Unlock()
	v.view.MarkDirty()
	v.tui.Interrupt()
}

// Refresh requests a redraw from another goroutine.
func (v *Viewer) Refresh() {
	v.view.MarkDirty()
	v.tui.Interrupt()
}

// Run processes events until the user quits or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, v.tui.Interrupt)
	defer stop()

	v.draw()
	for {
		ev := v.tui.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.tui.GetScreen().Sync()
			v.view.MarkDirty()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return nil
			}
		}
		if v.view.Dirty() {
			v.draw()
		}
	}
}

// handleKey returns true when the viewer should quit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	_, height := v.tui.Size()
	page := max(height-statusBarHeight, 1)
	last := max(v.buf.LineCount()-1, 0)

	move := func(line int) {
		v.view.CursorLine = min(max(line, 0), last)
		v.view.ScrollTo(v.view.CursorLine, page)
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		move(v.view.CursorLine - 1)
	case tcell.KeyDown:
		move(v.view.CursorLine + 1)
	case tcell.KeyPgUp:
		move(v.view.CursorLine - page)
	case tcell.KeyPgDn:
		move(v.view.CursorLine + page)
	case tcell.KeyHome:
		move(0)
	case tcell.KeyEnd:
		move(last)
	case tcell.KeyLeft:
		v.view.LeftCol = max(v.view.LeftCol-1, 0)
		v.view.MarkDirty()
	case tcell.KeyRight:
		v.view.LeftCol++
		v.view.MarkDirty()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			move(v.view.CursorLine - 1)
		case 'j':
			move(v.view.CursorLine + 1)
		case 'g':
			move(0)
		case 'G':
			move(last)
		case 't':
			v.nextTheme()
		}
	}
	return false
}

func (v *Viewer) nextTheme() {
	if v.themes == nil {
		return
	}
	names := v.themes.ListThemes()
	if len(names) == 0 {
		return
	}
	next := names[0]
	if cur := v.themes.Current(); cur != nil {
		for i, n := range names {
			if n == cur.Name {
				next = names[(i+1)%len(names)]
				break
			}
		}
	}
	if err := v.themes.SetTheme(next); err != nil {
		logger.Warnf("Viewer: %v", err)
		return
	}
	v.mu.Lock()
	v.status = "theme: " + next
	v.mu.Unlock()
	v.view.MarkDirty()
}

func (v *Viewer) draw() {
	width, height := v.tui.Size()
	screen := v.tui.GetScreen()
	lines := v.buf.Lines()
	res := v.results.Current()

	v.view.Draw(screen, render.Area{Width: width, Height: height - statusBarHeight}, lines, res)
	v.drawStatus(screen, width, height-1, len(lines))
	screen.Show()
}

func (v *Viewer) drawStatus(screen tcell.Screen, width, y, lineCount int) {
	if y < 0 {
		return
	}
	scheme := v.themeScheme()
	style := tcell.StyleDefault
	if scheme != nil {
		style = scheme.Style(theme.LineNumberPanelText, theme.LineNumberPanel)
	}

	v.mu.Lock()
	status := v.status
	v.mu.Unlock()

	name := filepath.Base(v.buf.FilePath())
	themeName := ""
	if v.themes != nil && v.themes.Current() != nil {
		themeName = v.themes.Current().Name
	}
	text := fmt.Sprintf(" %s | %s | %d/%d", name, themeName, v.view.CursorLine+1, lineCount)
	if status != "" {
		text += " | " + status
	}

	runes := []rune(text)
	for x := 0; x < width; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		screen.SetContent(x, y, r, nil, style)
	}
}

func (v *Viewer) themeScheme() *theme.Scheme {
	if v.themes == nil {
		return nil
	}
	return v.themes.Scheme()
}
