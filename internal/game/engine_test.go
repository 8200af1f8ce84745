package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/robalobadob/alphabet-bingo/internal/cue"
	"github.com/robalobadob/alphabet-bingo/internal/event"
	"github.com/robalobadob/alphabet-bingo/internal/game"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
	"github.com/robalobadob/alphabet-bingo/internal/sched"
	"github.com/robalobadob/alphabet-bingo/internal/score"
)

// scriptedRandom keeps the alphabet in order while shuffling (Fisher–Yates
// with j == i every step) and then serves draws from a script.
type scriptedRandom struct {
	shuffles int
	draws    []int
}

func (r *scriptedRandom) Intn(n int) int {
	if r.shuffles > 0 {
		r.shuffles--
		return n - 1
	}
	if len(r.draws) == 0 {
		return 0
	}
	v := r.draws[0]
	r.draws = r.draws[1:]
	return v % n
}

type MachineSuite struct {
	suite.Suite
	ctx    context.Context
	clk    *sched.ManualClock
	rnd    *scriptedRandom
	out    *event.Outbox
	scores *score.Memory
	m      *game.Machine
}

func (s *MachineSuite) SetupTest() {
	s.ctx = context.Background()
	s.clk = sched.NewManualClock()
	s.rnd = &scriptedRandom{}
	tbl, err := cue.Default()
	s.Require().NoError(err)
	s.out = event.NewOutbox(tbl, 1000)
	s.out.Unblock()
	s.scores = score.NewMemory(0)
	s.m = game.NewMachine(game.Options{
		Presenter: s.out,
		Player:    s.out,
		Scores:    score.NewTracker(s.scores, nil),
		Scheduler: sched.New(s.clk.Now),
		Random:    s.rnd,
	})
	s.m.Start(s.ctx)
}

// startRound walks the menus; the board is the first n² letters in order.
func (s *MachineSuite) startRound(mode game.Mode, c letters.Case, n int) {
	s.rnd.shuffles = letters.Size - 1
	s.Require().NoError(s.m.Play(s.ctx))
	s.Require().NoError(s.m.SelectMode(s.ctx, mode))
	s.Require().NoError(s.m.SelectCase(s.ctx, c))
	s.Require().NoError(s.m.SelectGrid(s.ctx, n))
	s.Require().Equal(game.ScreenPlaying, s.m.Screen())
}

func (s *MachineSuite) tick(d time.Duration) {
	s.clk.Add(d)
	s.m.Advance(s.ctx)
}

func (s *MachineSuite) round() game.RoundState {
	r, ok := s.m.Round()
	s.Require().True(ok)
	return r
}

func (s *MachineSuite) cues() []string {
	var out []string
	for _, e := range s.out.Drain() {
		if e.Kind == event.KindCue {
			out = append(out, e.Cue)
		}
	}
	return out
}

func (s *MachineSuite) TestRowBingoEndToEnd() {
	s.startRound(game.LetterNames, letters.Upper, 3)
	r := s.round()
	s.Equal([]string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}, r.Board.Cells)
	s.Equal("", r.Called)
	s.out.Drain()

	s.tick(500 * time.Millisecond)
	s.Equal("A", s.round().Called)
	s.tick(150 * time.Millisecond)
	s.Equal([]string{"A_NAME"}, s.cues())

	out, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(game.OutcomeCorrect, out)
	s.False(game.HasWin(s.round().Correct, 3))
	s.Len(s.round().Available, 8)

	s.tick(400 * time.Millisecond)
	s.Equal("B", s.round().Called)
	out, err = s.m.SelectTile(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(game.OutcomeCorrect, out)

	s.tick(400 * time.Millisecond)
	s.Equal("C", s.round().Called)
	out, err = s.m.SelectTile(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(game.OutcomeBingo, out)

	r = s.round()
	s.True(r.Over)
	s.True(r.Won)
	s.Equal(3, r.Score())
	s.Equal(3, r.CorrectCount)
	s.Equal(0, r.IncorrectCount)
	s.Equal(game.ScreenEnded, s.m.Screen())
	s.Equal(3, s.m.Best())

	var res *game.Result
	for _, e := range s.out.Drain() {
		if e.Kind == event.KindResult {
			res = e.Result
		}
	}
	s.Require().NotNil(res)
	s.Equal(game.Result{Won: true, Title: "GREAT JOB!", Subtitle: "BINGO!", Score: 3, Best: 3, NewBest: true}, *res)

	stored, _ := s.scores.BestScore(s.ctx)
	s.Equal(3, stored)
	s.Equal(0, s.m.Scheduler().Pending(), "ending a round voids pending cues")
}

func (s *MachineSuite) TestSoundsModeUsesUppercaseCueKeys() {
	s.startRound(game.LetterSounds, letters.Lower, 2)
	s.Equal([]string{"a", "b", "c", "d"}, s.round().Board.Cells)
	s.out.Drain()

	s.tick(500 * time.Millisecond)
	s.Equal("a", s.round().Called)
	s.tick(150 * time.Millisecond)
	s.Equal([]string{"A_SOUND"}, s.cues())

	s.Require().NoError(s.m.RepeatLetter(s.ctx))
	s.tick(150 * time.Millisecond)
	s.Equal([]string{cue.Click, "A_SOUND"}, s.cues())
}

func (s *MachineSuite) TestIncorrectPickKeepsLetterEligible() {
	s.startRound(game.LetterNames, letters.Upper, 3)
	s.tick(500 * time.Millisecond)
	s.Equal("A", s.round().Called)
	s.out.Drain()

	out, err := s.m.SelectTile(s.ctx, 4)
	s.Require().NoError(err)
	s.Equal(game.OutcomeIncorrect, out)

	r := s.round()
	s.Equal(1, r.IncorrectCount)
	s.Equal(0, r.CorrectCount)
	s.Len(r.Available, 9)
	s.Equal("A", r.Called)

	var tiles []game.TileState
	collect := func() {
		for _, e := range s.out.Drain() {
			if e.Kind == event.KindTile {
				s.Equal(4, *e.Index)
				tiles = append(tiles, e.Tile)
			}
		}
	}
	collect()
	s.tick(500 * time.Millisecond)
	collect()
	s.Equal([]game.TileState{game.TileIncorrect, game.TileCleared}, tiles)
}

func (s *MachineSuite) TestTapBeforeFirstCallIsIncorrect() {
	s.startRound(game.LetterNames, letters.Upper, 3)
	out, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(game.OutcomeIncorrect, out)
	s.Equal(1, s.round().IncorrectCount)
}

func (s *MachineSuite) TestSelectingCorrectTileTwiceIsNoop() {
	s.startRound(game.LetterNames, letters.Upper, 3)
	s.tick(500 * time.Millisecond)
	_, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	before := s.round()
	pending := s.m.Scheduler().Pending()

	out, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(game.OutcomeIgnored, out)
	s.Equal(before, s.round())
	s.Equal(pending, s.m.Scheduler().Pending())
}

func (s *MachineSuite) TestEndRoundIsIdempotent() {
	s.startRound(game.LetterNames, letters.Upper, 3)
	s.tick(500 * time.Millisecond)
	_, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)

	s.True(s.m.EndRound(s.ctx, false))
	after := s.round()
	s.out.Drain()

	s.False(s.m.EndRound(s.ctx, true))
	s.Equal(after, s.round())
	s.False(s.round().Won)
	s.Empty(s.out.Drain())

	out, err := s.m.SelectTile(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(game.OutcomeIgnored, out)
	s.Equal(after, s.round())
}

func (s *MachineSuite) TestLowerScoreDoesNotReplaceBest() {
	s.Require().NoError(s.scores.SetBestScore(s.ctx, 5))
	s.m.Start(s.ctx)
	s.Equal(5, s.m.Best())

	s.startRound(game.LetterNames, letters.Upper, 3)
	s.tick(500 * time.Millisecond)
	_, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	s.m.EndRound(s.ctx, false)

	s.Equal(5, s.m.Best())
	stored, _ := s.scores.BestScore(s.ctx)
	s.Equal(5, stored)
}

func (s *MachineSuite) TestSingleCellGridWinsImmediately() {
	s.startRound(game.LetterNames, letters.Upper, 1)
	s.tick(500 * time.Millisecond)
	out, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(game.OutcomeBingo, out)
}

func (s *MachineSuite) TestInvalidGridStaysOnGridScreen() {
	s.Require().NoError(s.m.Play(s.ctx))
	s.Require().NoError(s.m.SelectMode(s.ctx, game.LetterNames))
	s.Require().NoError(s.m.SelectCase(s.ctx, letters.Upper))

	s.ErrorIs(s.m.SelectGrid(s.ctx, 6), game.ErrInvalidSize)
	s.Equal(game.ScreenGrid, s.m.Screen())
	_, ok := s.m.Round()
	s.False(ok)
}

func (s *MachineSuite) TestWrongScreenActions() {
	s.ErrorIs(s.m.SelectMode(s.ctx, game.LetterNames), game.ErrWrongScreen)
	s.ErrorIs(s.m.Back(s.ctx), game.ErrWrongScreen)
	s.ErrorIs(s.m.PlayAgain(s.ctx), game.ErrWrongScreen)
	s.ErrorIs(s.m.RepeatLetter(s.ctx), game.ErrWrongScreen)
	_, err := s.m.SelectTile(s.ctx, 0)
	s.ErrorIs(err, game.ErrWrongScreen)

	s.Require().NoError(s.m.Play(s.ctx))
	s.ErrorIs(s.m.SelectMode(s.ctx, "SPELLING"), game.ErrUnknownMode)
	s.Equal(game.ScreenMode, s.m.Screen())
}

func (s *MachineSuite) TestTileOutOfRange() {
	s.startRound(game.LetterNames, letters.Upper, 2)
	_, err := s.m.SelectTile(s.ctx, 4)
	s.ErrorIs(err, game.ErrTileOutOfRange)
	_, err = s.m.SelectTile(s.ctx, -1)
	s.ErrorIs(err, game.ErrTileOutOfRange)
	s.Equal(0, s.round().IncorrectCount)
}

func (s *MachineSuite) TestBackNavigation() {
	s.Require().NoError(s.m.Play(s.ctx))
	s.Require().NoError(s.m.SelectMode(s.ctx, game.LetterSounds))
	s.Require().NoError(s.m.SelectCase(s.ctx, letters.Lower))

	s.Require().NoError(s.m.Back(s.ctx))
	s.Equal(game.ScreenCase, s.m.Screen())
	s.Require().NoError(s.m.SelectCase(s.ctx, letters.Upper))

	// Jump back to mode: the case choice is discarded, the mode is kept.
	s.Require().NoError(s.m.BackTo(s.ctx, game.ScreenMode))
	s.Equal(game.ScreenMode, s.m.Screen())
	s.ErrorIs(s.m.BackTo(s.ctx, game.ScreenGrid), game.ErrWrongScreen)
	s.ErrorIs(s.m.BackTo(s.ctx, game.ScreenPlaying), game.ErrWrongScreen)

	s.Require().NoError(s.m.Back(s.ctx))
	s.Equal(game.ScreenStart, s.m.Screen())
}

func (s *MachineSuite) TestBackKeepsEarlierChoices() {
	s.Require().NoError(s.m.Play(s.ctx))
	s.Require().NoError(s.m.SelectMode(s.ctx, game.LetterSounds))
	s.Require().NoError(s.m.SelectCase(s.ctx, letters.Lower))
	s.Require().NoError(s.m.Back(s.ctx))
	s.Require().NoError(s.m.SelectCase(s.ctx, letters.Upper))

	s.rnd.shuffles = letters.Size - 1
	s.Require().NoError(s.m.SelectGrid(s.ctx, 3))
	s.Equal(game.Config{Mode: game.LetterSounds, Case: letters.Upper, GridSize: 3}, s.m.Config())
}

func (s *MachineSuite) TestPlayAgainResetsAndVoidsTimers() {
	s.startRound(game.LetterNames, letters.Upper, 1)
	s.tick(500 * time.Millisecond)
	_, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)

	s.Require().NoError(s.m.PlayAgain(s.ctx))
	s.Equal(game.ScreenStart, s.m.Screen())
	_, ok := s.m.Round()
	s.False(ok)

	// A round reset while its first call is still pending never sees that call.
	s.startRound(game.LetterNames, letters.Upper, 3)
	s.m.Reset(s.ctx)
	s.tick(time.Second)
	_, ok = s.m.Round()
	s.False(ok)
	s.Equal(0, s.m.Scheduler().Pending())
}

func (s *MachineSuite) TestMusicFollowsStartScreen() {
	var music []string
	for _, e := range s.out.Drain() {
		if e.Kind == event.KindMusic {
			music = append(music, e.Music)
		}
	}
	s.Equal([]string{"start"}, music)

	s.Require().NoError(s.m.Play(s.ctx))
	evs := s.out.Drain()
	s.Require().NotEmpty(evs)
	s.Equal(cue.Click, evs[0].Cue)
	s.Contains(evs, event.Event{Seq: evs[len(evs)-1].Seq, Kind: event.KindMusic, Music: "stop"})
}

func (s *MachineSuite) TestMissingCueAssetsDoNotAffectPlay() {
	s.out = event.NewOutbox(cue.Table{}, 1000)
	s.out.Unblock()
	s.m = game.NewMachine(game.Options{
		Presenter: s.out,
		Player:    s.out,
		Scores:    score.NewTracker(s.scores, nil),
		Scheduler: sched.New(s.clk.Now),
		Random:    s.rnd,
	})
	s.m.Start(s.ctx)
	s.startRound(game.LetterNames, letters.Upper, 1)

	s.tick(500 * time.Millisecond)
	s.tick(150 * time.Millisecond)
	out, err := s.m.SelectTile(s.ctx, 0)
	s.Require().NoError(err)
	s.Equal(game.OutcomeBingo, out)
	s.Equal(game.ScreenEnded, s.m.Screen())
	s.Empty(s.cues())
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func TestMusicBlockedUntilInteraction(t *testing.T) {
	ctx := context.Background()
	tbl, err := cue.Default()
	require.NoError(t, err)
	out := event.NewOutbox(tbl, 0)
	m := game.NewMachine(game.Options{Presenter: out, Player: out})
	m.Start(ctx)
	for _, e := range out.Drain() {
		require.NotEqual(t, event.KindMusic, e.Kind)
	}

	out.Unblock()
	m.Interacted(ctx)
	m.Interacted(ctx)
	evs := out.Drain()
	require.Len(t, evs, 1)
	require.Equal(t, "start", evs[0].Music)
}
