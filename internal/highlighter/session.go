// Package highlighter produces analysis results from tree-sitter parse trees.
package highlighter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"fortio.org/safecast"
	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/highlighter/lang"
	"github.com/bethropolis/tidemark/internal/highlighter/utils"
	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/bethropolis/tidemark/internal/theme"
	"github.com/bethropolis/tidemark/internal/types"
	sitter "github.com/smacker/go-tree-sitter"
)

// ErrClosed is returned by a session after Close.
var ErrClosed = errors.New("highlighter session closed")

// matchCheckInterval is how many captures run between context checks.
const matchCheckInterval = 256

// Session analyzes one document. It keeps the last tree so edits reported
// through Edit make the next Analyze an incremental reparse.
type Session struct {
	mu           sync.Mutex
	lang         *lang.Language
	parser       *sitter.Parser
	query        *sitter.Query
	tree         *sitter.Tree
	checkColumns bool
	closed       bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithColumnChecks makes every result verify span column order.
func WithColumnChecks(enabled bool) SessionOption {
	return func(s *Session) { s.checkColumns = enabled }
}

// NewSession creates a session for l.
func NewSession(l *lang.Language, opts ...SessionOption) (*Session, error) {
	if l == nil || l.TreeSitterLang == nil {
		return nil, fmt.Errorf("no language provided for highlighting")
	}
	q, err := queryFor(l)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(l.TreeSitterLang)

	s := &Session{lang: l, parser: parser, query: q}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Language returns the session's language.
func (s *Session) Language() *lang.Language {
	return s.lang
}

// Edit records a buffer edit against the last tree.
func (s *Session) Edit(edit types.EditInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil || s.closed {
		return
	}
	logger.DebugTagf("highlighter", "Applying edit to tree: %+v", edit)
	s.tree.Edit(edit.Input())
}

// Close releases the parser and the last tree.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.tree != nil {
		s.tree.Close()
		s.tree = nil
	}
	s.parser.Close()
}

// Analyze parses src and builds a finalized result from it.
func (s *Session) Analyze(ctx context.Context, src []byte) (*analysis.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	tree, err := s.parser.ParseCtx(ctx, s.tree, src)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}
	if err := ctx.Err(); err != nil {
		tree.Close()
		return nil, err
	}
	if s.tree != nil {
		s.tree.Close()
	}
	s.tree = tree

	lines := bytes.Split(src, []byte("\n"))
	opts := []analysis.Option{analysis.WithCapacity(len(lines))}
	if s.checkColumns {
		opts = append(opts, analysis.WithColumnChecks())
	}
	r := analysis.NewResult(opts...)
	p := newPainter(lines)

	if err := s.paintCaptures(ctx, tree.RootNode(), p); err != nil {
		return nil, err
	}
	if err := p.emit(r); err != nil {
		return nil, fmt.Errorf("building spans: %w", err)
	}

	w := &walker{lang: s.lang, src: src, painter: p, result: r}
	w.visit(tree.RootNode(), false)
	if n := w.maxTopLevel(); n > 0 {
		r.SetSuppressSwitch(n)
	}
	r.SetNavigation(w.navigation)

	r.Determine(len(lines) - 1)
	r.AddNormalIfNull()

	logger.DebugTagf("highlighter", "Analyzed %d lines: %d blocks, %d outline items",
		r.LineCount(), len(r.Blocks()), len(w.navigation))
	return r, nil
}

// paintCaptures walks captures in position order. For one node, earlier
// patterns in the query come first and so win the column.
func (s *Session) paintCaptures(ctx context.Context, root *sitter.Node, p *painter) error {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(s.query, root)

	for n := 0; ; n++ {
		if n%matchCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		match, index, ok := qc.NextCapture()
		if !ok {
			return nil
		}
		capture := match.Captures[index]
		color, ok := ColorForCapture(s.query.CaptureNameForId(capture.Index))
		if !ok {
			continue
		}
		start, end, ok := nodeRange(capture.Node)
		if !ok {
			continue
		}
		p.paint(start, end, color)
	}
}

// point is a tree-sitter point with int fields; Col is still in bytes.
type point struct {
	Row, Col int
}

func toPoint(p sitter.Point) (point, error) {
	row, err := safecast.Conv[int](p.Row)
	if err != nil {
		return point{}, err
	}
	col, err := safecast.Conv[int](p.Column)
	if err != nil {
		return point{}, err
	}
	return point{Row: row, Col: col}, nil
}

func nodeRange(n *sitter.Node) (start, end point, ok bool) {
	start, err := toPoint(n.StartPoint())
	if err != nil {
		logger.Warnf("Highlighter: node start out of range: %v", err)
		return point{}, point{}, false
	}
	end, err = toPoint(n.EndPoint())
	if err != nil {
		logger.Warnf("Highlighter: node end out of range: %v", err)
		return point{}, point{}, false
	}
	return start, end, true
}

// painter collects per-column colors. The first capture to reach a column
// keeps it. Empty rows inside a multi-line capture keep that capture's color
// in carry.
type painter struct {
	lines  [][]byte
	starts [][]int
	cells  [][]theme.ColorID
	carry  []theme.ColorID
}

func newPainter(lines [][]byte) *painter {
	return &painter{
		lines:  lines,
		starts: make([][]int, len(lines)),
		cells:  make([][]theme.ColorID, len(lines)),
		carry:  make([]theme.ColorID, len(lines)),
	}
}

func (p *painter) columnStarts(row int) []int {
	if p.starts[row] == nil {
		p.starts[row] = utils.ColumnStarts(p.lines[row])
	}
	return p.starts[row]
}

// column converts a byte column on row to a display column.
func (p *painter) column(row, byteCol int) int {
	return utils.ByteOffsetToColumn(p.columnStarts(row), len(p.lines[row]), byteCol)
}

func (p *painter) paint(start, end point, color theme.ColorID) {
	last := end.Row
	if last >= len(p.lines) {
		last = len(p.lines) - 1
	}
	for row := start.Row; row <= last; row++ {
		width := len(p.columnStarts(row))
		if width == 0 {
			// The capture spans this row's newline.
			if row < end.Row && p.carry[row] == 0 {
				p.carry[row] = color
			}
			continue
		}
		from, to := 0, width
		if row == start.Row {
			from = p.column(row, start.Col)
		}
		if row == end.Row {
			to = p.column(row, end.Col)
		}
		if from >= to {
			continue
		}
		if p.cells[row] == nil {
			p.cells[row] = make([]theme.ColorID, width)
		}
		cells := p.cells[row]
		for c := from; c < to; c++ {
			if cells[c] == 0 {
				cells[c] = color
			}
		}
	}
}

// emit feeds the painted columns to r in document order.
func (p *painter) emit(r *analysis.Result) error {
	for row, cells := range p.cells {
		if len(cells) == 0 {
			c := p.carry[row]
			if c == 0 {
				c = theme.TextNormal
			}
			if err := r.AddIfNeeded(row, 0, c); err != nil {
				return err
			}
			continue
		}
		prev := theme.ColorID(-1)
		for col, c := range cells {
			if c == 0 {
				c = theme.TextNormal
			}
			if c == prev {
				continue
			}
			if err := r.AddIfNeeded(row, col, c); err != nil {
				return err
			}
			prev = c
		}
	}
	return nil
}

// walker extracts blocks and outline items in pre-order.
type walker struct {
	lang       *lang.Language
	src        []byte
	painter    *painter
	result     *analysis.Result
	navigation []analysis.NavigationItem

	// topLevel[i] counts the blocks inside the i-th outermost block,
	// itself included.
	topLevel []int
}

func (w *walker) visit(n *sitter.Node, inBlock bool) {
	if n == nil || n.IsNull() {
		return
	}

	start, end, ok := nodeRange(n)
	if !ok {
		return
	}

	if kind, isNav := w.lang.NavTypes[n.Type()]; isNav {
		if name := n.ChildByFieldName("name"); name != nil && !name.IsNull() {
			if at, _, ok := nodeRange(name); ok {
				w.navigation = append(w.navigation, analysis.NavigationItem{
					Line:   at.Row,
					Column: w.painter.column(at.Row, at.Col),
					Label:  name.Content(w.src),
					Kind:   kind,
				})
			}
		}
	}

	isBlock := end.Row > start.Row && end.Row < len(w.painter.lines) && w.lang.IsBlock(n.Type())
	if isBlock {
		b := w.result.ObtainNewBlock()
		b.StartLine = start.Row
		b.StartColumn = w.painter.column(start.Row, start.Col)
		b.EndLine = end.Row
		b.EndColumn = w.painter.column(end.Row, end.Col)
		b.ID = len(w.result.Blocks())
		w.result.AddBlockLine(b)

		if inBlock {
			w.topLevel[len(w.topLevel)-1]++
		} else {
			w.topLevel = append(w.topLevel, 1)
		}
	}

	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		w.visit(n.Child(i), inBlock || isBlock)
	}
}

func (w *walker) maxTopLevel() int {
	largest := 0
	for _, n := range w.topLevel {
		largest = max(largest, n)
	}
	return largest
}
