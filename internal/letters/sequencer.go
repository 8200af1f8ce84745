// internal/letters/sequencer.go
//
// Random sequencing over letter pools:
//   - Shuffle: in-place Fisher–Yates, every permutation equally likely.
//   - Draw:    pick one element uniformly and return the pool without it.
//   - Remove:  drop the first instance of a value (used when a called letter is found).

package letters

import "errors"

// ErrEmptyPool is returned by Draw when there is nothing left to draw.
var ErrEmptyPool = errors.New("draw from empty pool")

// Shuffle permutes s in place.
func Shuffle[T any](r Random, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Draw selects one element of pool uniformly at random and returns it together
// with the remaining elements. Removal is positional, so duplicate values are
// handled correctly. pool itself is not modified.
func Draw[T any](r Random, pool []T) (T, []T, error) {
	var zero T
	if len(pool) == 0 {
		return zero, nil, ErrEmptyPool
	}
	i := r.Intn(len(pool))
	rest := make([]T, 0, len(pool)-1)
	rest = append(rest, pool[:i]...)
	rest = append(rest, pool[i+1:]...)
	return pool[i], rest, nil
}

// Remove returns pool without the first element equal to v, and whether one was found.
func Remove[T comparable](pool []T, v T) ([]T, bool) {
	for i, x := range pool {
		if x == v {
			out := make([]T, 0, len(pool)-1)
			out = append(out, pool[:i]...)
			return append(out, pool[i+1:]...), true
		}
	}
	return pool, false
}
