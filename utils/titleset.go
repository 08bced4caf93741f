package utils

import "strings"

// TitleSet tracks recipe titles case-insensitively
type TitleSet struct {
	seen map[string]struct{}
}

// NewTitleSet creates an empty set
func NewTitleSet() *TitleSet {
	return &TitleSet{seen: make(map[string]struct{})}
}

// TitleKey is the comparison key for a title: trimmed and lower-cased
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Add returns true if the title is new, false if an equal title was already added
func (t *TitleSet) Add(title string) bool {
	key := TitleKey(title)
	if _, exists := t.seen[key]; exists {
		return false
	}
	t.seen[key] = struct{}{}
	return true
}

// Has reports whether an equal title was added
func (t *TitleSet) Has(title string) bool {
	_, ok := t.seen[TitleKey(title)]
	return ok
}

// Count returns the number of distinct titles
func (t *TitleSet) Count() int {
	return len(t.seen)
}
