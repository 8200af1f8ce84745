// internal/game/types.go
//
// Core type definitions for the bingo game engine.
// Defines:
//   - Mode / Screen / TileState / Outcome enums.
//   - Config: the immutable settings of one round.
//   - Result: what the end screen shows.
//   - Presenter, CuePlayer, ScoreKeeper: collaborators the Machine drives.

package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/alphabet-bingo/internal/cue"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
)

var (
	ErrInvalidSize    = errors.New("invalid grid size")
	ErrWrongScreen    = errors.New("action not available on this screen")
	ErrTileOutOfRange = errors.New("tile index out of range")
	ErrUnknownMode    = errors.New("unknown game mode")
)

// Mode selects how letters are called out.
type Mode string

const (
	LetterNames  Mode = "LETTER_NAMES"
	LetterSounds Mode = "LETTER_SOUNDS"
)

// ParseMode accepts the canonical names and the short forms "names"/"sounds".
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LETTER_NAMES", "NAMES", "NAME":
		return LetterNames, nil
	case "LETTER_SOUNDS", "SOUNDS", "SOUND":
		return LetterSounds, nil
	}
	return "", ErrUnknownMode
}

// CueKind maps the mode to the recording that is played for a letter.
func (m Mode) CueKind() cue.Kind {
	if m == LetterSounds {
		return cue.Sound
	}
	return cue.Name
}

// Screen identifies what the presentation surface shows.
type Screen string

const (
	ScreenStart   Screen = "start"
	ScreenMode    Screen = "mode"
	ScreenCase    Screen = "case"
	ScreenGrid    Screen = "grid"
	ScreenPlaying Screen = "playing"
	ScreenEnded   Screen = "ended"
)

// settingsOrder is the forward path through the menus; back navigation
// only moves to an earlier entry.
var settingsOrder = []Screen{ScreenStart, ScreenMode, ScreenCase, ScreenGrid}

func settingsPos(s Screen) int {
	for i, x := range settingsOrder {
		if x == s {
			return i
		}
	}
	return -1
}

// Config is fixed for the lifetime of a round.
type Config struct {
	Mode     Mode         `json:"mode"`
	Case     letters.Case `json:"case"`
	GridSize int          `json:"gridSize"`
}

// Validate checks the configuration before any board is generated.
// A board needs GridSize² distinct letters, so sizes above 5 are rejected.
func (c Config) Validate() error {
	if c.Mode != LetterNames && c.Mode != LetterSounds {
		return ErrUnknownMode
	}
	if c.Case != letters.Upper && c.Case != letters.Lower {
		return letters.ErrUnknownCase
	}
	return validSize(c.GridSize, letters.Size)
}

func validSize(n, available int) error {
	if n < 1 || n*n > available {
		return fmt.Errorf("%w: %d×%d needs %d letters, %d available", ErrInvalidSize, n, n, n*n, available)
	}
	return nil
}

// TileState is a visual change applied to one board cell.
type TileState string

const (
	TileCorrect   TileState = "correct"
	TileIncorrect TileState = "incorrect"
	TileCleared   TileState = "cleared" // incorrect flag removed
)

// Outcome reports what a tile selection did.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeBingo     Outcome = "bingo"
	OutcomeExhausted Outcome = "exhausted" // correct, but no letters left and no bingo
)

// Result is the end-of-round summary.
type Result struct {
	Won       bool   `json:"won"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Score     int    `json:"score"`
	Incorrect int    `json:"incorrect"`
	Best      int    `json:"best"`
	NewBest   bool   `json:"newBest"`
}

// Presenter receives every visible change. Implementations must not call
// back into the Machine.
type Presenter interface {
	Show(s Screen)
	ShowBoard(b Board)
	MarkTile(index int, st TileState)
	ShowLetter(letter string)
	ShowCounts(correct, incorrect int)
	ShowResult(r Result)
	ShowBest(best int)
}

// CuePlayer plays audio cues by key. Errors are reported but never affect
// game state.
type CuePlayer interface {
	Play(key string) error
	StartMusic(key string) error
	StopMusic()
}

// ScoreKeeper owns the persisted best score.
type ScoreKeeper interface {
	Best(ctx context.Context) int
	Record(ctx context.Context, final int) (best int, isNew bool)
}

type nopPresenter struct{}

func (nopPresenter) Show(Screen)             {}
func (nopPresenter) ShowBoard(Board)         {}
func (nopPresenter) MarkTile(int, TileState) {}
func (nopPresenter) ShowLetter(string)       {}
func (nopPresenter) ShowCounts(int, int)     {}
func (nopPresenter) ShowResult(Result)       {}
func (nopPresenter) ShowBest(int)            {}

type nopPlayer struct{}

func (nopPlayer) Play(string) error       { return nil }
func (nopPlayer) StartMusic(string) error { return nil }
func (nopPlayer) StopMusic()              {}

type nopScores struct{}

func (nopScores) Best(context.Context) int { return 0 }
func (nopScores) Record(_ context.Context, final int) (int, bool) {
	return final, final > 0
}
