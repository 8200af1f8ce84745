package game

import "github.com/robalobadob/alphabet-bingo/internal/collections"

// HasWin reports whether selections cover a full row, column, or either
// diagonal of an n×n grid. Lines are checked rows, columns, main diagonal,
// anti-diagonal; the first complete one wins.
func HasWin(selections collections.Set[int], n int) bool {
	if n < 1 || selections.Len() < n {
		return false
	}
	for r := 0; r < n; r++ {
		if lineComplete(selections, n, func(i int) int { return r*n + i }) {
			return true
		}
	}
	for c := 0; c < n; c++ {
		if lineComplete(selections, n, func(i int) int { return i*n + c }) {
			return true
		}
	}
	if lineComplete(selections, n, func(i int) int { return i*n + i }) {
		return true
	}
	return lineComplete(selections, n, func(i int) int { return i*n + (n - 1 - i) })
}

func lineComplete(sel collections.Set[int], n int, cell func(i int) int) bool {
	for i := 0; i < n; i++ {
		if !sel.Contains(cell(i)) {
			return false
		}
	}
	return true
}
