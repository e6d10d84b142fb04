// Package connector turns fully-qualified connector identifiers into short,
// comparable provider names.
package connector

import "strings"

// Normalize reduces a connector id of the shape ".../<provider>-<suffix>" to
// "<provider>". It keeps the text after the last "/", then drops everything
// from the last "-" onward. No case folding or trimming is done.
//
//	Normalize("/providers/Microsoft.PowerApps/apis/shared_sql-3f2a") == "shared_sql"
//
// Provider names that themselves contain a hyphen are cut at that hyphen
// when no suffix is present; callers accept this.
func Normalize(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.LastIndex(id, "-"); i >= 0 {
		id = id[:i]
	}
	return id
}

// Names is an ordered set of normalized connector names.
type Names struct {
	order []string
	seen  map[string]struct{}
}

// NewNames returns an empty set.
func NewNames() *Names {
	return &Names{seen: make(map[string]struct{})}
}

// Add normalizes id and records it if new. It reports whether the name was added.
func (n *Names) Add(id string) bool {
	name := Normalize(id)
	if _, ok := n.seen[name]; ok {
		return false
	}
	n.seen[name] = struct{}{}
	n.order = append(n.order, name)
	return true
}

// Contains reports whether the already-normalized name is in the set.
func (n *Names) Contains(name string) bool {
	_, ok := n.seen[name]
	return ok
}

// List returns names in first-seen order.
func (n *Names) List() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Len returns the number of distinct names.
func (n *Names) Len() int {
	return len(n.order)
}
