package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchOrderAndData(t *testing.T) {
	m := NewManager()
	var got []int
	m.Subscribe(TypeColorChanged, func(e Event) bool {
		got = append(got, e.Data.(ColorChangedData).ColorID)
		return false
	})
	m.Subscribe(TypeColorChanged, func(e Event) bool {
		got = append(got, -e.Data.(ColorChangedData).ColorID)
		return false
	})

	m.Dispatch(TypeColorChanged, ColorChangedData{ColorID: 21})
	require.Equal(t, []int{21, -21}, got)
}

func TestDispatchStopsWhenConsumed(t *testing.T) {
	m := NewManager()
	calls := 0
	m.Subscribe(TypeThemeChanged, func(Event) bool { calls++; return true })
	m.Subscribe(TypeThemeChanged, func(Event) bool { calls++; return false })

	m.Dispatch(TypeThemeChanged, ThemeChangedData{Name: "VS2019"})
	assert.Equal(t, 1, calls)
}

func TestDispatchWithoutHandlers(t *testing.T) {
	m := NewManager()
	assert.NotPanics(t, func() { m.Dispatch(TypeAnalysisFailed, nil) })
	assert.Equal(t, "AnalysisFailed", TypeAnalysisFailed.String())
}
