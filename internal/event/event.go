// internal/event/event.go
package event

import (
	"time"

	"github.com/bethropolis/tidemark/internal/types"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	TypeBufferModified // buffer content changed (insert/delete)
	TypeBufferLoaded   // a buffer was loaded from disk

	TypeAnalysisCompleted // a new snapshot was published
	TypeAnalysisFailed    // a pass failed; the previous snapshot stays current

	TypeColorChanged // a scheme color id changed value
	TypeThemeChanged // the active theme was switched or reloaded
)

func (t Type) String() string {
	switch t {
	case TypeBufferModified:
		return "BufferModified"
	case TypeBufferLoaded:
		return "BufferLoaded"
	case TypeAnalysisCompleted:
		return "AnalysisCompleted"
	case TypeAnalysisFailed:
		return "AnalysisFailed"
	case TypeColorChanged:
		return "ColorChanged"
	case TypeThemeChanged:
		return "ThemeChanged"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data any
}

// BufferModifiedData carries the edit for incremental parsing.
type BufferModifiedData struct {
	Edit types.EditInfo
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// AnalysisCompletedData summarizes a published snapshot.
type AnalysisCompletedData struct {
	Pass     uint64
	Lines    int
	Blocks   int
	Duration time.Duration
}

// AnalysisFailedData carries the error that abandoned a pass.
type AnalysisFailedData struct {
	Pass uint64
	Err  error
}

// ColorChangedData names the color id whose value changed.
type ColorChangedData struct {
	ColorID int
}

// ThemeChangedData names the new active theme.
type ThemeChangedData struct {
	Name string
}
