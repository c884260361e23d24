package theme

import (
	"errors"
	"sync"

	"github.com/bethropolis/tidemark/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// ErrAlreadyAttached is returned when a second listener is attached to a scheme.
var ErrAlreadyAttached = errors.New("a listener is already attached to this scheme")

// Listener is notified after a color actually changed.
type Listener interface {
	ColorUpdated(id ColorID)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(id ColorID)

// ColorUpdated calls f(id).
func (f ListenerFunc) ColorUpdated(id ColorID) { f(id) }

// Scheme maps color ids to colors for one display surface.
//
// It has a single writer, the goroutine that owns display state. The lock only
// lets the renderer read while a theme switch is applied. Notifications are
// delivered outside the lock, in SetColor order.
type Scheme struct {
	mu       sync.RWMutex
	colors   map[ColorID]Color
	listener Listener
	name     string
}

// NewScheme creates a scheme holding the default colors.
func NewScheme() *Scheme {
	s := &Scheme{colors: make(map[ColorID]Color, int(MaxReservedID))}
	s.ApplyDefault()
	s.name = Default.Name
	return s
}

// NewSchemeFor creates a scheme with t applied on top of the defaults.
func NewSchemeFor(t *Theme) *Scheme {
	s := NewScheme()
	s.Apply(t)
	return s
}

// Attach sets the owning listener. A scheme serves one surface at a time.
func (s *Scheme) Attach(l Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return ErrAlreadyAttached
	}
	s.listener = l
	return nil
}

// Detach removes the listener, if any.
func (s *Scheme) Detach() {
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
}

// Name returns the name of the theme last applied.
func (s *Scheme) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// ApplyDefault resets every reserved id to its built-in default.
func (s *Scheme) ApplyDefault() {
	for id := MinReservedID; id <= MaxReservedID; id++ {
		s.SetColor(id, defaultColors[id])
	}
}

// Apply makes the scheme hold exactly the defaults patched by t's overrides.
// The target table is resolved first, so only ids whose final value differs
// from the current one are reported to the listener.
func (s *Scheme) Apply(t *Theme) {
	if t == nil {
		return
	}
	target := t.Resolve()
	for id := range s.Snapshot() {
		if _, ok := target[id]; !ok {
			s.SetColor(id, Unset)
		}
	}
	for id := MinReservedID; id <= MaxReservedID; id++ {
		s.SetColor(id, target[id])
	}
	for _, o := range t.Overrides {
		if !o.ID.Reserved() {
			s.SetColor(o.ID, target[o.ID])
		}
	}
	s.mu.Lock()
	s.name = t.Name
	s.mu.Unlock()
	logger.DebugTagf("theme", "Scheme: applied theme '%s' (%d overrides)", t.Name, len(t.Overrides))
}

// SetColor stores c for id and notifies the listener.
// Setting the value already stored does nothing, so repeated theme
// application does not trigger repaints.
func (s *Scheme) SetColor(id ColorID, c Color) {
	s.mu.Lock()
	if s.colors[id] == c {
		s.mu.Unlock()
		return
	}
	if c == Unset {
		delete(s.colors, id)
	} else {
		s.colors[id] = c
	}
	l := s.listener
	s.mu.Unlock()

	if l != nil {
		l.ColorUpdated(id)
	}
}

// Color returns the value for id, or Unset for ids never set.
func (s *Scheme) Color(id ColorID) Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors[id]
}

// Snapshot copies the current id to color table.
func (s *Scheme) Snapshot() map[ColorID]Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[ColorID]Color, len(s.colors))
	for id, c := range s.colors {
		out[id] = c
	}
	return out
}

// Style builds a tcell style from a foreground and a background id.
func (s *Scheme) Style(fg, bg ColorID) tcell.Style {
	return tcell.StyleDefault.Foreground(s.Color(fg).Tcell()).Background(s.Color(bg).Tcell())
}
