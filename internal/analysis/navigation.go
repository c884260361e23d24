package analysis

// NavigationItem is one outline entry. The producer owns the list wholesale;
// the result stores it without validation.
type NavigationItem struct {
	Line   int
	Column int
	Label  string
	Kind   string // "function", "method", "type", ...
}
