// Package highlight schedules analysis passes and publishes their results.
package highlight

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/event"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/types"
)

// DebounceHighlightDuration is the default quiet period before a pass starts.
const DebounceHighlightDuration = 65 * time.Millisecond

// ErrShutdown is returned by RunNow after Shutdown.
var ErrShutdown = errors.New("highlight manager shut down")

// Analyzer turns document bytes into a finalized result.
type Analyzer interface {
	Analyze(ctx context.Context, src []byte) (*analysis.Result, error)
	Edit(edit types.EditInfo)
}

// Source provides the document content at the start of a pass.
type Source interface {
	Bytes() []byte
}

// Option configures a Manager.
type Option func(*Manager)

// WithDebounce overrides DebounceHighlightDuration.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithBus dispatches completion and failure events to bus.
func WithBus(bus *event.Manager) Option {
	return func(m *Manager) { m.bus = bus }
}

// WithRedraw calls fn after each published snapshot.
func WithRedraw(fn func()) Option {
	return func(m *Manager) { m.redraw = fn }
}

// Manager runs debounced background passes. Readers call Current and keep
// the snapshot for as long as they need it; a failed pass leaves the previous
// snapshot in place.
type Manager struct {
	analyzer Analyzer
	source   Source
	bus      *event.Manager
	redraw   func()
	debounce time.Duration

	current atomic.Pointer[analysis.Result]

	// seq numbers passes in start order; published is the seq of current.
	seq       atomic.Uint64
	publishMu sync.Mutex
	published uint64

	mu           sync.Mutex // Protects timer and pending state
	timer        *time.Timer
	cancelFunc   context.CancelFunc
	isRunning    bool
	closed       bool
	pendingEdits []types.EditInfo
}

// NewManager creates a manager. No pass runs until RunNow or AccumulateEdit.
func NewManager(analyzer Analyzer, source Source, opts ...Option) *Manager {
	m := &Manager{
		analyzer:     analyzer,
		source:       source,
		debounce:     DebounceHighlightDuration,
		pendingEdits: make([]types.EditInfo, 0, 5),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Current returns the latest published snapshot, or nil before the first
// successful pass.
func (m *Manager) Current() *analysis.Result {
	return m.current.Load()
}

// Subscribe feeds buffer modifications from bus into AccumulateEdit.
func (m *Manager) Subscribe(bus *event.Manager) {
	bus.Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		if data, ok := e.Data.(event.BufferModifiedData); ok {
			m.AccumulateEdit(data.Edit)
		}
		return false
	})
}

// AccumulateEdit records an edit and restarts the debounce timer. A pass
// already running is cancelled; its edits reached the tree, so the next pass
// picks up where it stopped.
func (m *Manager) AccumulateEdit(edit types.EditInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}

	m.pendingEdits = append(m.pendingEdits, edit)
	logger.DebugTagf("highlight", "HighlightingManager: Accumulated edit: %+v", edit)

	if m.isRunning && m.cancelFunc != nil {
		logger.DebugTagf("highlight", "HighlightingManager: Cancelling superseded pass.")
		m.cancelFunc()
	}
	m.scheduleLocked()
}

func (m *Manager) scheduleLocked() {
	if m.timer != nil {
		m.timer.Reset(m.debounce)
		logger.DebugTagf("highlight", "HighlightingManager: Debounce timer reset.")
		return
	}
	logger.DebugTagf("highlight", "HighlightingManager: Starting debounce timer (%v).", m.debounce)
	m.timer = time.AfterFunc(m.debounce, m.runHighlightUpdate)
}

// runHighlightUpdate runs on the timer goroutine.
func (m *Manager) runHighlightUpdate() {
	m.mu.Lock()
	m.timer = nil

	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.isRunning {
		logger.DebugTagf("highlight", "HighlightingManager: Pass running, edits stay queued.")
		m.mu.Unlock()
		return
	}
	if len(m.pendingEdits) == 0 {
		logger.DebugTagf("highlight", "HighlightingManager: No pending edits, skipping highlight run.")
		m.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.isRunning = true
	m.cancelFunc = cancel
	edits := m.takeEditsLocked()
	src := m.source.Bytes()
	m.mu.Unlock()

	logger.DebugTagf("highlight", "HighlightingManager: Debounce finished, running pass for %d edits.", len(edits))
	if err := m.runPass(ctx, edits, src); err != nil {
		logger.DebugTagf("highlight", "HighlightingManager: Debounced pass ended early: %v", err)
	}
	cancel()

	m.mu.Lock()
	m.isRunning = false
	m.cancelFunc = nil
	if !m.closed && len(m.pendingEdits) > 0 {
		m.scheduleLocked()
	}
	m.mu.Unlock()
}

func (m *Manager) takeEditsLocked() []types.EditInfo {
	edits := make([]types.EditInfo, len(m.pendingEdits))
	copy(edits, m.pendingEdits)
	m.pendingEdits = m.pendingEdits[:0]
	return edits
}

// RunNow runs a pass synchronously with any pending edits.
func (m *Manager) RunNow(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrShutdown
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	edits := m.takeEditsLocked()
	src := m.source.Bytes()
	m.mu.Unlock()

	return m.runPass(ctx, edits, src)
}

func (m *Manager) runPass(ctx context.Context, edits []types.EditInfo, src []byte) error {
	seq := m.seq.Add(1)
	for _, edit := range edits {
		m.analyzer.Edit(edit)
	}

	start := time.Now()
	res, err := m.analyzer.Analyze(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			logger.DebugTagf("highlight", "HighlightingManager: Pass %d cancelled.", seq)
			return ctx.Err()
		}
		logger.Warnf("HighlightingManager: Pass %d failed, keeping previous result: %v", seq, err)
		if m.bus != nil {
			m.bus.Dispatch(event.TypeAnalysisFailed, event.AnalysisFailedData{Pass: seq, Err: err})
		}
		return err
	}

	if !m.publish(seq, res) {
		logger.DebugTagf("highlight", "HighlightingManager: Pass %d superseded by newer result.", seq)
		return nil
	}

	elapsed := time.Since(start)
	logger.DebugTagf("highlight", "HighlightingManager: Pass %d published %d lines, %d blocks in %v.",
		seq, res.LineCount(), len(res.Blocks()), elapsed)
	if m.bus != nil {
		m.bus.Dispatch(event.TypeAnalysisCompleted, event.AnalysisCompletedData{
			Pass:     seq,
			Lines:    res.LineCount(),
			Blocks:   len(res.Blocks()),
			Duration: elapsed,
		})
	}
	if m.redraw != nil {
		m.redraw()
	}
	return nil
}

// publish stores res unless a later pass already published.
func (m *Manager) publish(seq uint64, res *analysis.Result) bool {
	m.publishMu.Lock()
	defer m.publishMu.Unlock()
	if seq < m.published {
		return false
	}
	m.published = seq
	m.current.Store(res)
	return true
}

// Shutdown cancels any pending or running pass. Later edits are ignored.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.cancelFunc != nil {
		logger.DebugTagf("highlight", "HighlightingManager: Shutting down, cancelling running pass.")
		m.cancelFunc()
		m.cancelFunc = nil
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
