package game

import (
	"github.com/robalobadob/alphabet-bingo/internal/letters"
)

// Board is an n×n grid stored row-major.
type Board struct {
	Size  int      `json:"size"`
	Cells []string `json:"cells"`
}

// GenerateBoard shuffles alphabet and takes its first size² letters.
// Cells are pairwise distinct as long as alphabet is.
func GenerateBoard(r letters.Random, alphabet []string, size int) (Board, error) {
	if err := validSize(size, len(alphabet)); err != nil {
		return Board{}, err
	}
	shuffled := append([]string(nil), alphabet...)
	letters.Shuffle(r, shuffled)
	return Board{Size: size, Cells: shuffled[: size*size : size*size]}, nil
}

// Index converts a row/column pair to a cell index.
func (b Board) Index(row, col int) int { return row*b.Size + col }

// Len is the number of cells.
func (b Board) Len() int { return len(b.Cells) }
