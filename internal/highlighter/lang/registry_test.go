package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLookup(t *testing.T) {
	l := &Language{Name: "Fixture", Extensions: []string{".FIX"}, BlockTypes: []string{"block"}}
	Register(l)

	assert.Same(t, l, GetForFile("dir/a.fix"))
	assert.Same(t, l, GetByName("fixture"))
	assert.Nil(t, GetForFile("a.unknownext"))
	assert.Contains(t, GetAll(), l)

	assert.True(t, l.IsBlock("block"))
	assert.False(t, l.IsBlock("comment"))
}

func TestGetQueryWithoutPath(t *testing.T) {
	_, err := (&Language{Name: "X"}).GetQuery()
	assert.Error(t, err)
}
