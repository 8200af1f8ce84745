package collections

import (
	"cmp"
	"slices"
)

type Set[V comparable] map[V]struct{}

// NewSet returns a set holding the given values.
func NewSet[V comparable](values ...V) Set[V] {
	s := make(Set[V], len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add an element to the set
func (set Set[V]) Add(value V) {
	set[value] = struct{}{}
}

// Contains returns whether the element exists within the set
func (set Set[V]) Contains(value V) bool {
	_, contains := set[value]
	return contains
}

// ContainsAll reports whether every given value is in the set
func (set Set[V]) ContainsAll(values ...V) bool {
	for _, v := range values {
		if !set.Contains(v) {
			return false
		}
	}
	return true
}

func (set Set[V]) Len() int {
	return len(set)
}

// Clone returns an independent copy
func (set Set[V]) Clone() Set[V] {
	out := make(Set[V], len(set))
	for v := range set {
		out.Add(v)
	}
	return out
}

// Sorted returns the elements of an ordered set in ascending order
func Sorted[V cmp.Ordered](set Set[V]) []V {
	out := make([]V, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
