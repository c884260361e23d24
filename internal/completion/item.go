// Package completion builds completion candidates from an analysis outline.
package completion

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bethropolis/tidemark/internal/analysis"
)

// Item is one completion candidate.
type Item struct {
	Label  string // shown in the list
	Commit string // inserted when chosen
	Desc   string

	// CursorOffset is where the cursor lands within Commit, in runes.
	CursorOffset int
}

// NewItem creates an item committing label itself.
func NewItem(label, desc string) *Item {
	return NewItemWithCommit(label, label, desc)
}

// NewItemWithCommit creates an item with the cursor after commit.
func NewItemWithCommit(label, commit, desc string) *Item {
	return &Item{
		Label:        label,
		Commit:       commit,
		Desc:         desc,
		CursorOffset: utf8.RuneCountInString(commit),
	}
}

// SetCursorOffset places the cursor offset runes into Commit.
func (it *Item) SetCursorOffset(offset int) (*Item, error) {
	n := utf8.RuneCountInString(it.Commit)
	if offset < 0 || offset > n {
		return it, &analysis.InvalidRangeError{What: "cursor offset", Value: offset, Min: 0, Max: n}
	}
	it.CursorOffset = offset
	return it, nil
}

// ShiftCount places the cursor shift runes before the end of Commit.
func (it *Item) ShiftCount(shift int) (*Item, error) {
	return it.SetCursorOffset(utf8.RuneCountInString(it.Commit) - shift)
}

// ByLabel sorts items by label.
func ByLabel(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
}

// FromNavigation returns one item per outline entry whose label starts with
// prefix, sorted by label. Duplicate labels are listed once.
func FromNavigation(nav []analysis.NavigationItem, prefix string) []*Item {
	seen := make(map[string]bool, len(nav))
	var items []*Item
	for _, n := range nav {
		if n.Label == "" || seen[n.Label] || !strings.HasPrefix(n.Label, prefix) {
			continue
		}
		seen[n.Label] = true
		it := NewItem(n.Label, n.Kind)
		if n.Kind == "func" || n.Kind == "function" || n.Kind == "def" || n.Kind == "method" {
			it.Commit = n.Label + "()"
			it.CursorOffset = utf8.RuneCountInString(n.Label) + 1
		}
		items = append(items, it)
	}
	ByLabel(items)
	return items
}
