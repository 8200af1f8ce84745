// internal/game/engine.go
//
// Game state machine for one player session.
// Responsibilities:
//   - Walk the menus: start → mode → case → grid, with back navigation.
//   - Generate the board and own the RoundState while playing.
//   - Call letters, apply tile selections, detect bingo, end the round.
//   - Drive the presenter and cue player, and record the final score.
//
// State transitions:
//
//	start → mode → case → grid → playing → ended → start
//	mode/case/grid → any earlier menu screen (back)
//
// Notes:
//   - A Machine is single-threaded: the caller serializes every method call,
//     including Advance, which runs due pacing tasks.
//   - Pacing tasks (letter calls, cues, clearing a wrong tile) are stamped with
//     the scheduler generation; starting or leaving a round bumps it so stale
//     timers do nothing.
//   - Playback and persistence failures are logged and otherwise ignored.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/alphabet-bingo/internal/cue"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
	"github.com/robalobadob/alphabet-bingo/internal/sched"
)

// Pacing holds the cosmetic delays between events.
type Pacing struct {
	StartDelay      time.Duration // entering a round → first letter call
	NextLetterDelay time.Duration // correct pick → next letter call
	CueDelay        time.Duration // letter call or repeat → audio cue
	IncorrectClear  time.Duration // wrong pick → tile flag cleared
}

// DefaultPacing matches the browser game's timings.
func DefaultPacing() Pacing {
	return Pacing{
		StartDelay:      500 * time.Millisecond,
		NextLetterDelay: 400 * time.Millisecond,
		CueDelay:        150 * time.Millisecond,
		IncorrectClear:  500 * time.Millisecond,
	}
}

// Options wires a Machine to its collaborators. Nil fields get no-op or
// default implementations.
type Options struct {
	Presenter Presenter
	Player    CuePlayer
	Scores    ScoreKeeper
	Scheduler *sched.Scheduler
	Random    letters.Random
	Pacing    Pacing
	Logger    *zerolog.Logger
}

// settings collects menu choices until the grid size finalizes them.
type settings struct {
	mode    Mode
	hasMode bool
	lcase   letters.Case
	hasCase bool
}

// Machine is the game state machine.
type Machine struct {
	presenter Presenter
	player    CuePlayer
	scores    ScoreKeeper
	sched     *sched.Scheduler
	rnd       letters.Random
	pacing    Pacing
	log       zerolog.Logger

	screen     Screen
	settings   settings
	cfg        Config
	round      *RoundState
	best       int
	interacted bool
}

// NewMachine constructs a Machine on the start screen. Call Start to show it.
func NewMachine(o Options) *Machine {
	m := &Machine{
		presenter: o.Presenter,
		player:    o.Player,
		scores:    o.Scores,
		sched:     o.Scheduler,
		rnd:       o.Random,
		pacing:    o.Pacing,
		screen:    ScreenStart,
	}
	if m.presenter == nil {
		m.presenter = nopPresenter{}
	}
	if m.player == nil {
		m.player = nopPlayer{}
	}
	if m.scores == nil {
		m.scores = nopScores{}
	}
	if m.sched == nil {
		m.sched = sched.New(nil)
	}
	if m.rnd == nil {
		m.rnd = letters.CryptoRandom{}
	}
	if m.pacing == (Pacing{}) {
		m.pacing = DefaultPacing()
	}
	if o.Logger != nil {
		m.log = *o.Logger
	} else {
		m.log = zerolog.Nop()
	}
	return m
}

// ----------------------------- accessors -----------------------------------

// Screen reports the current screen.
func (m *Machine) Screen() Screen { return m.screen }

// Config reports the configuration of the current or last round.
func (m *Machine) Config() Config { return m.cfg }

// Best reports the best score known to the machine.
func (m *Machine) Best() int { return m.best }

// Round returns a copy of the round state, or false if no round exists.
func (m *Machine) Round() (RoundState, bool) {
	if m.round == nil {
		return RoundState{}, false
	}
	return m.round.clone(), true
}

// Scheduler exposes the pacing scheduler (for inspection and draining).
func (m *Machine) Scheduler() *sched.Scheduler { return m.sched }

// Advance runs pacing tasks that are due. It returns how many ran.
func (m *Machine) Advance(ctx context.Context) int { return m.sched.RunDue(ctx) }

// Drain runs every pending pacing task immediately.
func (m *Machine) Drain(ctx context.Context) int { return m.sched.Drain(ctx) }

// ------------------------------ menus --------------------------------------

// Start loads the best score and shows the start screen.
func (m *Machine) Start(ctx context.Context) {
	m.best = m.scores.Best(ctx)
	m.presenter.ShowBest(m.best)
	m.show(ScreenStart)
}

// Play leaves the start screen for mode selection.
func (m *Machine) Play(ctx context.Context) error {
	if err := m.require("play", ScreenStart); err != nil {
		return err
	}
	m.click()
	m.show(ScreenMode)
	return nil
}

// SelectMode records the calling mode and moves to case selection.
func (m *Machine) SelectMode(ctx context.Context, mode Mode) error {
	if err := m.require("select mode", ScreenMode); err != nil {
		return err
	}
	if mode != LetterNames && mode != LetterSounds {
		return ErrUnknownMode
	}
	m.click()
	m.settings.mode, m.settings.hasMode = mode, true
	m.show(ScreenCase)
	return nil
}

// SelectCase records the letter case and moves to grid selection.
func (m *Machine) SelectCase(ctx context.Context, c letters.Case) error {
	if err := m.require("select case", ScreenCase); err != nil {
		return err
	}
	if c != letters.Upper && c != letters.Lower {
		return letters.ErrUnknownCase
	}
	m.click()
	m.settings.lcase, m.settings.hasCase = c, true
	m.show(ScreenGrid)
	return nil
}

// SelectGrid finalizes the configuration and starts a round. An invalid
// size leaves the machine on the grid screen.
func (m *Machine) SelectGrid(ctx context.Context, size int) error {
	if err := m.require("select grid", ScreenGrid); err != nil {
		return err
	}
	cfg := Config{Mode: m.settings.mode, Case: m.settings.lcase, GridSize: size}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.click()
	return m.startRound(cfg)
}

// Back returns to the previous menu screen.
func (m *Machine) Back(ctx context.Context) error {
	pos := settingsPos(m.screen)
	if pos < 1 {
		return fmt.Errorf("%w: back on %s", ErrWrongScreen, m.screen)
	}
	return m.BackTo(ctx, settingsOrder[pos-1])
}

// BackTo returns to an earlier menu screen. Choices belonging to screens
// after target are discarded; earlier choices are kept.
func (m *Machine) BackTo(ctx context.Context, target Screen) error {
	from, to := settingsPos(m.screen), settingsPos(target)
	if from < 1 || to < 0 || to >= from {
		return fmt.Errorf("%w: back from %s to %s", ErrWrongScreen, m.screen, target)
	}
	m.click()
	if to < settingsPos(ScreenCase) {
		m.settings.lcase, m.settings.hasCase = "", false
	}
	if to < settingsPos(ScreenMode) {
		m.settings.mode, m.settings.hasMode = "", false
	}
	m.show(target)
	return nil
}

// PlayAgain leaves the end screen for a fresh start.
func (m *Machine) PlayAgain(ctx context.Context) error {
	if err := m.require("play again", ScreenEnded); err != nil {
		return err
	}
	m.click()
	m.Reset(ctx)
	return nil
}

// Reset discards any round and settings and shows the start screen.
func (m *Machine) Reset(ctx context.Context) {
	m.sched.NewGeneration()
	m.round = nil
	m.settings = settings{}
	m.presenter.ShowLetter("")
	m.presenter.ShowCounts(0, 0)
	m.show(ScreenStart)
}

// Interacted records the first user interaction, which lets a blocked
// menu track start.
func (m *Machine) Interacted(ctx context.Context) {
	if m.interacted {
		return
	}
	m.interacted = true
	if m.screen == ScreenStart {
		m.startMusic()
	}
}

// ------------------------------ round --------------------------------------

func (m *Machine) startRound(cfg Config) error {
	b, err := GenerateBoard(m.rnd, letters.Alphabet(cfg.Case), cfg.GridSize)
	if err != nil {
		return err
	}
	m.sched.NewGeneration()
	m.cfg = cfg
	m.round = newRound(b)
	m.log.Info().
		Str("mode", string(cfg.Mode)).
		Str("case", string(cfg.Case)).
		Int("grid", cfg.GridSize).
		Strs("board", b.Cells).
		Msg("round started")

	m.show(ScreenPlaying)
	m.presenter.ShowBoard(b)
	m.presenter.ShowLetter("")
	m.presenter.ShowCounts(0, 0)
	m.after(m.pacing.StartDelay, "call-letter", m.callTask)
	return nil
}

// CallNextLetter picks the next letter to find. The pool only shrinks on a
// correct pick, so a missed letter can be called again. Calling with an
// empty pool ends the round without a win.
func (m *Machine) CallNextLetter(ctx context.Context) error {
	r := m.round
	if r == nil || r.Over {
		return nil
	}
	if len(r.Available) == 0 {
		m.EndRound(ctx, false)
		return nil
	}
	letter, _, err := letters.Draw(m.rnd, r.Available)
	if err != nil {
		return fmt.Errorf("call next letter: %w", err)
	}
	r.Called = letter
	m.presenter.ShowLetter(letter)
	key := cue.Key(letter, m.cfg.Mode.CueKind())
	m.log.Debug().Str("letter", letter).Str("cue", key).Int("pool", len(r.Available)).Msg("calling letter")
	m.after(m.pacing.CueDelay, "letter-cue", func(context.Context) { m.play(key) })
	return nil
}

func (m *Machine) callTask(ctx context.Context) {
	if err := m.CallNextLetter(ctx); err != nil {
		m.log.Error().Err(err).Msg("letter call failed")
	}
}

// SelectTile applies a tap on cell index. Taps after the round is over or
// on a cell already marked correct change nothing.
func (m *Machine) SelectTile(ctx context.Context, index int) (Outcome, error) {
	r := m.round
	if r == nil {
		return OutcomeIgnored, fmt.Errorf("%w: select tile on %s", ErrWrongScreen, m.screen)
	}
	if r.Over || r.IsCorrect(index) {
		return OutcomeIgnored, nil
	}
	if index < 0 || index >= r.Board.Len() {
		return OutcomeIgnored, fmt.Errorf("%w: %d", ErrTileOutOfRange, index)
	}

	if r.Called == "" || r.Board.Cells[index] != r.Called {
		r.markIncorrect()
		m.play(cue.Incorrect)
		m.presenter.MarkTile(index, TileIncorrect)
		m.presenter.ShowCounts(r.CorrectCount, r.IncorrectCount)
		m.after(m.pacing.IncorrectClear, "clear-tile", func(context.Context) {
			if !r.IsCorrect(index) {
				m.presenter.MarkTile(index, TileCleared)
			}
		})
		return OutcomeIncorrect, nil
	}

	r.markCorrect(index)
	m.play(cue.Correct)
	m.presenter.MarkTile(index, TileCorrect)
	m.presenter.ShowCounts(r.CorrectCount, r.IncorrectCount)
	m.log.Debug().Int("tile", index).Str("letter", r.Called).Msg("correct pick")

	switch {
	case HasWin(r.Correct, r.Board.Size):
		m.EndRound(ctx, true)
		return OutcomeBingo, nil
	case len(r.Available) == 0:
		m.EndRound(ctx, false)
		return OutcomeExhausted, nil
	}
	m.after(m.pacing.NextLetterDelay, "call-letter", m.callTask)
	return OutcomeCorrect, nil
}

// RepeatLetter replays the cue for the current letter, if any.
func (m *Machine) RepeatLetter(ctx context.Context) error {
	if err := m.require("repeat letter", ScreenPlaying); err != nil {
		return err
	}
	m.click()
	if m.round == nil || m.round.Called == "" {
		return nil
	}
	key := cue.Key(m.round.Called, m.cfg.Mode.CueKind())
	m.after(m.pacing.CueDelay, "letter-cue", func(context.Context) { m.play(key) })
	return nil
}

// EndRound finishes the round once; later calls return false and change
// nothing. The final score is the number of correct cells.
func (m *Machine) EndRound(ctx context.Context, won bool) bool {
	r := m.round
	if r == nil || r.Over {
		return false
	}
	r.Over, r.Won = true, won
	if m.sched.Pending() > 0 {
		m.log.Debug().Strs("tasks", m.sched.PendingNames()).Msg("dropping pending tasks")
	}
	m.sched.NewGeneration()

	res := Result{Won: won, Title: "GOOD TRY!", Score: r.Score(), Incorrect: r.IncorrectCount}
	if won {
		res.Title, res.Subtitle = "GREAT JOB!", "BINGO!"
		m.play(cue.Bingo)
	}
	res.Best, res.NewBest = m.scores.Record(ctx, res.Score)
	m.best = res.Best

	m.log.Info().Bool("won", won).Int("score", res.Score).Int("incorrect", res.Incorrect).
		Int("best", res.Best).Bool("newBest", res.NewBest).Msg("round ended")

	m.presenter.ShowCounts(r.CorrectCount, r.IncorrectCount)
	m.presenter.ShowResult(res)
	m.presenter.ShowBest(res.Best)
	m.show(ScreenEnded)
	return true
}

// ------------------------------ helpers ------------------------------------

func (m *Machine) require(op string, s Screen) error {
	if m.screen != s {
		return fmt.Errorf("%w: %s on %s", ErrWrongScreen, op, m.screen)
	}
	return nil
}

func (m *Machine) show(s Screen) {
	m.screen = s
	m.presenter.Show(s)
	if s == ScreenStart {
		m.startMusic()
	} else {
		m.player.StopMusic()
	}
}

func (m *Machine) after(d time.Duration, name string, fn sched.Task) {
	m.sched.After(d, name, fn)
}

func (m *Machine) click() { m.play(cue.Click) }

func (m *Machine) play(key string) {
	err := m.player.Play(key)
	switch {
	case err == nil:
	case errors.Is(err, cue.ErrUnknownCue):
		m.log.Debug().Str("cue", key).Msg("no asset for cue")
	default:
		m.log.Warn().Err(err).Str("cue", key).Msg("cue playback failed")
	}
}

func (m *Machine) startMusic() {
	err := m.player.StartMusic(cue.MenuMusic)
	switch {
	case err == nil:
	case errors.Is(err, cue.ErrPlaybackBlocked):
		m.log.Debug().Msg("menu music waiting for interaction")
	case errors.Is(err, cue.ErrUnknownCue):
		m.log.Debug().Msg("no asset for menu music")
	default:
		m.log.Warn().Err(err).Msg("menu music not started")
	}
}
