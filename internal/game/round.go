package game

import (
	"github.com/robalobadob/alphabet-bingo/internal/collections"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
)

// RoundState is the mutable state of one round. The Machine owns the only
// live instance; everyone else sees copies from Machine.Round.
type RoundState struct {
	Board     Board
	Available []string
	Called    string
	Correct   collections.Set[int]

	CorrectCount   int
	IncorrectCount int

	Over bool
	Won  bool
}

func newRound(b Board) *RoundState {
	return &RoundState{
		Board:     b,
		Available: append([]string(nil), b.Cells...),
		Correct:   collections.NewSet[int](),
	}
}

// Score is the number of cells marked correct.
func (r *RoundState) Score() int { return r.Correct.Len() }

// IsCorrect reports whether cell i is already marked.
func (r *RoundState) IsCorrect(i int) bool { return r.Correct.Contains(i) }

// markCorrect records a correct pick at i and retires the called letter.
func (r *RoundState) markCorrect(i int) {
	r.Correct.Add(i)
	r.CorrectCount++
	r.Available, _ = letters.Remove(r.Available, r.Called)
}

func (r *RoundState) markIncorrect() {
	r.IncorrectCount++
}

// clone returns a deep copy.
func (r *RoundState) clone() RoundState {
	c := *r
	c.Board.Cells = append([]string(nil), r.Board.Cells...)
	c.Available = append([]string(nil), r.Available...)
	c.Correct = r.Correct.Clone()
	return c
}
