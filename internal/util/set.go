package util

// A Set represents a set of strings that remembers insertion order.
// Elements are deduplicated: adding an element already present is a no-op
// and does not disturb the element's original position.
// The zero value represents an empty set.
type Set struct {
	index map[string]struct{}
	elems []string
}

// NewSet returns a Set that contains all of elems but no other elements.
func NewSet(elems ...string) (set Set) {
	// We don't need defensive copying here because clients cannot hold
	// a reference to this function's slice argument.
	for _, e := range elems {
		set.Add(e)
	}
	return
}

// Add adds e to set if it's not already present.
func (set *Set) Add(e string) {
	if _, found := set.index[e]; found {
		return
	}
	if set.index == nil {
		set.index = make(map[string]struct{})
	}
	set.index[e] = struct{}{}
	set.elems = append(set.elems, e)
}

// Contains reports whether e is an element of set.
func (set Set) Contains(e string) bool {
	_, found := set.index[e]
	return found
}

// Size returns the cardinality of set.
func (set Set) Size() int {
	return len(set.elems)
}

// ToSlice returns a copy of set's elements in insertion order.
func (set Set) ToSlice() []string {
	if len(set.elems) == 0 {
		return nil
	}
	res := make([]string, len(set.elems))
	copy(res, set.elems)
	return res
}
