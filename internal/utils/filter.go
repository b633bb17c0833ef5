package utils

// OrderedSet keeps distinct strings in the order they were first added.
// Matching is exact: "Gum" and "gum" are two entries.
type OrderedSet struct {
	seen  map[string]struct{}
	items []string
}

// NewOrderedSet creates an empty set with room for sizeHint entries
func NewOrderedSet(sizeHint int) *OrderedSet {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &OrderedSet{
		seen:  make(map[string]struct{}, sizeHint),
		items: make([]string, 0, sizeHint),
	}
}

// Add appends s unless it is already present.
// Returns true if s was added, false if it's a duplicate
func (o *OrderedSet) Add(s string) bool {
	if _, ok := o.seen[s]; ok {
		return false
	}
	o.seen[s] = struct{}{}
	o.items = append(o.items, s)
	return true
}

// Contains reports whether s was added before
func (o *OrderedSet) Contains(s string) bool {
	_, ok := o.seen[s]
	return ok
}

// Len returns the number of distinct entries
func (o *OrderedSet) Len() int {
	return len(o.items)
}

// Items returns the entries in insertion order.
// The returned slice is owned by the caller.
func (o *OrderedSet) Items() []string {
	out := make([]string, len(o.items))
	copy(out, o.items)
	return out
}
