// cmd/tidemark/main.go
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/tidemark/internal/buffer"
	"github.com/bethropolis/tidemark/internal/config"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/highlight"
	"github.com/bethropolis/tidemark/internal/highlighter"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/render"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/tui"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags := config.NewFlags(config.AppName)
	args, err := flags.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		return
	}
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] FILE\n", config.AppName)
		os.Exit(2)
	}
	filePath := args[0]

	// --- Configuration & Logger ---
	cfg, err := config.Load(*flags.ConfigFilePath, flags)
	if err != nil {
		stlog.Printf("Warning: %v (using defaults)", err)
	}
	closer, err := logger.Init(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closer.Close()
	if *flags.DebugLog {
		logger.SetDebugFilter(true)
	}

	logger.Infof("Starting %s %s on %s", config.AppName, config.Version, filePath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flags, filePath); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

func run(ctx context.Context, cfg *config.Config, flags *config.Flags, filePath string) error {
	buf := buffer.NewSliceBuffer()
	if err := buf.Load(filePath); err != nil {
		return err
	}

	bus := event.NewManager()
	bus.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: filePath})

	headless := *flags.Dump || *flags.Copy || flags.IsSet("complete")

	// Passes finish on the scheduler's goroutine, possibly before the viewer exists.
	var viewerRef atomic.Pointer[tui.Viewer]
	redraw := func() {
		if v := viewerRef.Load(); v != nil {
			v.Refresh()
		}
	}
	hl, stopAnalysis, err := startAnalysis(ctx, cfg.Analysis, buf, bus, redraw, !headless)
	if err != nil {
		return err
	}
	defer stopAnalysis()

	if headless {
		return runHeadless(hl, flags)
	}

	// --- Themes ---
	scheme := theme.NewScheme()
	themes := theme.NewManager(scheme, cfg.Theme.Dir, bus)
	if err := themes.LoadThemesFromDir(ctx); err != nil {
		logger.Warnf("Loading themes: %v", err)
	}
	if err := themes.SetTheme(cfg.Theme.Name); err != nil {
		logger.Warnf("%v, keeping %s", err, themes.Current().Name)
	}
	if cfg.Theme.Watch {
		if err := themes.Watch(ctx, 0); err != nil {
			logger.Warnf("Theme watcher disabled: %v", err)
		}
	}

	// --- Viewer ---
	t, err := tui.New(scheme)
	if err != nil {
		return err
	}
	defer t.Close()

	view := render.NewView(scheme, cfg.Analysis.TabWidth)
	toBus := theme.BusListener{Bus: bus}
	if err := scheme.Attach(theme.ListenerFunc(func(id theme.ColorID) {
		view.ColorUpdated(id)
		toBus.ColorUpdated(id)
	})); err != nil {
		return err
	}
	defer scheme.Detach()

	viewer := tui.NewViewer(t, view, buf, hl, themes)
	viewerRef.Store(viewer)
	bus.Subscribe(event.TypeAnalysisFailed, func(e event.Event) bool {
		if data, ok := e.Data.(event.AnalysisFailedData); ok {
			viewer.SetStatus(fmt.Sprintf("analysis failed: %v", data.Err))
		}
		return false
	})
	bus.Subscribe(event.TypeColorChanged, func(event.Event) bool {
		viewer.Refresh()
		return false
	})

	return viewer.Run(ctx)
}

// startAnalysis runs the first pass over buf and keeps re-analyzing on
// buffer edits. With watch set, edits come from changes to the file on disk.
func startAnalysis(ctx context.Context, cfg config.AnalysisConfig, buf *buffer.SliceBuffer, bus *event.Manager, redraw func(), watch bool) (*highlight.Manager, func(), error) {
	analyzer, closeAnalyzer, err := newAnalyzer(buf.FilePath(), cfg.ColumnChecks)
	if err != nil {
		return nil, nil, err
	}
	hl := highlight.NewManager(analyzer, buf,
		highlight.WithBus(bus),
		highlight.WithDebounce(cfg.Debounce()),
		highlight.WithRedraw(redraw),
	)
	stop := func() {
		hl.Shutdown()
		closeAnalyzer()
	}
	hl.Subscribe(bus)

	if err := hl.RunNow(ctx); err != nil {
		stop()
		return nil, nil, fmt.Errorf("analyzing %s: %w", buf.FilePath(), err)
	}

	if watch && cfg.WatchFile {
		if err := buffer.WatchFile(ctx, buf, bus, 0); err != nil {
			logger.Warnf("File watcher disabled: %v", err)
		}
	}
	return hl, stop, nil
}

// newAnalyzer picks a tree-sitter session for known languages and plain text otherwise.
func newAnalyzer(filePath string, columnChecks bool) (highlight.Analyzer, func(), error) {
	l := highlighter.Detect(filePath)
	if l == nil {
		logger.Infof("No language registered for %s, highlighting as plain text", filePath)
		return highlighter.NewPlain(highlighter.WithColumnChecks(columnChecks)), func() {}, nil
	}
	session, err := highlighter.NewSession(l, highlighter.WithColumnChecks(columnChecks))
	if err != nil {
		return nil, nil, err
	}
	logger.Debugf("Highlighting %s as %s", filePath, l.Name)
	return session, session.Close, nil
}

func runHeadless(hl *highlight.Manager, flags *config.Flags) error {
	res := hl.Current()
	if res == nil {
		return errors.New("no analysis result")
	}
	if flags.IsSet("complete") {
		return writeCompletions(os.Stdout, res, *flags.Complete)
	}

	var out bytes.Buffer
	if err := writeDump(&out, res); err != nil {
		return err
	}
	if *flags.Copy {
		if err := clipboard.WriteAll(out.String()); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		logger.Infof("Copied %d bytes of dump to the clipboard", out.Len())
	}
	if *flags.Dump {
		_, err := out.WriteTo(os.Stdout)
		return err
	}
	return nil
}
