package theme

import "github.com/bethropolis/tidemark/internal/event"

// BusListener forwards scheme notifications to an event bus.
type BusListener struct {
	Bus *event.Manager
}

// ColorUpdated dispatches event.TypeColorChanged.
func (b BusListener) ColorUpdated(id ColorID) {
	if b.Bus == nil {
		return
	}
	b.Bus.Dispatch(event.TypeColorChanged, event.ColorChangedData{ColorID: int(id)})
}
