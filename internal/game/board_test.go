package game_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/alphabet-bingo/internal/collections"
	"github.com/robalobadob/alphabet-bingo/internal/game"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
)

func TestGenerateBoardSizes(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for _, c := range []letters.Case{letters.Upper, letters.Lower} {
		alphabet := letters.Alphabet(c)
		inAlphabet := collections.NewSet(alphabet...)
		for n := 1; n <= 5; n++ {
			b, err := game.GenerateBoard(r, alphabet, n)
			require.NoError(t, err)
			require.Equal(t, n, b.Size)
			require.Len(t, b.Cells, n*n)

			seen := collections.NewSet[string]()
			for _, l := range b.Cells {
				require.True(t, inAlphabet.Contains(l), "letter %q not in alphabet", l)
				require.False(t, seen.Contains(l), "letter %q repeated", l)
				seen.Add(l)
			}
		}
	}
}

func TestGenerateBoardDoesNotTouchAlphabet(t *testing.T) {
	alphabet := letters.Alphabet(letters.Upper)
	_, err := game.GenerateBoard(rand.New(rand.NewSource(1)), alphabet, 5)
	require.NoError(t, err)
	assert.Equal(t, letters.Alphabet(letters.Upper), alphabet)
}

func TestGenerateBoardRejectsOversizedGrids(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, n := range []int{0, -2, 6, 10} {
		_, err := game.GenerateBoard(r, letters.Alphabet(letters.Upper), n)
		assert.ErrorIs(t, err, game.ErrInvalidSize, "n=%d", n)
	}
	_, err := game.GenerateBoard(r, []string{"a", "b", "c"}, 2)
	assert.ErrorIs(t, err, game.ErrInvalidSize)
}

func TestConfigValidate(t *testing.T) {
	ok := game.Config{Mode: game.LetterNames, Case: letters.Upper, GridSize: 5}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.GridSize = 6
	assert.ErrorIs(t, bad.Validate(), game.ErrInvalidSize)

	bad = ok
	bad.Mode = "SPELLING"
	assert.ErrorIs(t, bad.Validate(), game.ErrUnknownMode)

	bad = ok
	bad.Case = ""
	assert.ErrorIs(t, bad.Validate(), letters.ErrUnknownCase)
}

func TestParseMode(t *testing.T) {
	m, err := game.ParseMode("sounds")
	require.NoError(t, err)
	assert.Equal(t, game.LetterSounds, m)
	m, err = game.ParseMode("LETTER_NAMES")
	require.NoError(t, err)
	assert.Equal(t, game.LetterNames, m)
	_, err = game.ParseMode("")
	assert.ErrorIs(t, err, game.ErrUnknownMode)
}
