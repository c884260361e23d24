package highlighter

import (
	"bytes"
	"context"

	"github.com/bethropolis/tidemark/internal/analysis"
	"github.com/bethropolis/tidemark/internal/types"
)

// Plain analyzes files without a registered language: every line is normal
// text and there are no blocks or outline.
type Plain struct {
	checkColumns bool
}

// NewPlain creates a plain-text analyzer.
func NewPlain(opts ...SessionOption) *Plain {
	var s Session
	for _, opt := range opts {
		opt(&s)
	}
	return &Plain{checkColumns: s.checkColumns}
}

func (p *Plain) Edit(types.EditInfo) {}

func (p *Plain) Analyze(ctx context.Context, src []byte) (*analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines := bytes.Count(src, []byte{'\n'}) + 1
	var opts []analysis.Option
	if p.checkColumns {
		opts = append(opts, analysis.WithColumnChecks())
	}
	res := analysis.NewResult(append(opts, analysis.WithCapacity(lines))...)
	res.Determine(lines - 1)
	res.AddNormalIfNull()
	return res, nil
}
