package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/alphabet-bingo/internal/game"
	"github.com/robalobadob/alphabet-bingo/internal/letters"
)

var playFlags struct {
	db    string
	seed  int64
	quiet bool
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play Alphabet Bingo in the terminal. Cues are printed instead of played.

Commands
	play                  leave the start screen
	mode names|sounds     how letters are called
	case upper|lower      letter case on the board
	grid N                board size (1-5), starts the round
	back [screen]         previous menu, or an earlier one by name
	<letter> or <index>   tap a tile
	repeat                call the current letter again
	again                 back to the start screen after a round
	quit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		var rnd letters.Random = letters.CryptoRandom{}
		if playFlags.seed != 0 {
			rnd = rand.New(rand.NewSource(playFlags.seed))
		}
		m, term := newTerminalGame(cmd.OutOrStdout(), openScores(ctx, playFlags.db), rnd, playFlags.quiet)
		m.Start(ctx)

		in := bufio.NewScanner(cmd.InOrStdin())
		for term.prompt(); in.Scan(); term.prompt() {
			quit, err := runCommand(ctx, m, term, in.Text())
			if err != nil {
				term.warn(err)
			}
			if quit {
				return nil
			}
		}
		return in.Err()
	},
}

func init() {
	playCmd.Flags().StringVar(&playFlags.db, "db", "", "SQLite file for the best score (in-memory if empty)")
	playCmd.Flags().Int64Var(&playFlags.seed, "seed", 0, "Seed for board and letter order (0: random)")
	playCmd.Flags().BoolVarP(&playFlags.quiet, "quiet", "q", false, "Do not print cues")
	rootCmd.AddCommand(playCmd)
}

func newTerminalGame(out io.Writer, scores game.ScoreKeeper, rnd letters.Random, quiet bool) (*game.Machine, *terminal) {
	t := &terminal{out: out, quiet: quiet, tiles: map[int]game.TileState{}}
	logger := log.With().Str("surface", "terminal").Logger()
	m := game.NewMachine(game.Options{
		Presenter: t,
		Player:    t,
		Scores:    scores,
		Random:    rnd,
		Logger:    &logger,
	})
	return m, t
}

// runCommand applies one input line. Pending pacing tasks are run right
// away; a terminal has nothing to animate between them.
func runCommand(ctx context.Context, m *game.Machine, t *terminal, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	m.Interacted(ctx)

	var err error
	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "play":
		err = m.Play(ctx)
	case "mode":
		var mode game.Mode
		if mode, err = game.ParseMode(arg); err == nil {
			err = m.SelectMode(ctx, mode)
		}
	case "case":
		var c letters.Case
		if c, err = letters.ParseCase(arg); err == nil {
			err = m.SelectCase(ctx, c)
		}
	case "grid":
		var n int
		if n, err = strconv.Atoi(arg); err == nil {
			err = m.SelectGrid(ctx, n)
		}
	case "back":
		if arg == "" {
			err = m.Back(ctx)
		} else {
			err = m.BackTo(ctx, game.Screen(arg))
		}
	case "repeat":
		err = m.RepeatLetter(ctx)
	case "again":
		err = m.PlayAgain(ctx)
	default:
		err = t.tap(ctx, m, fields[0])
	}
	m.Drain(ctx)
	t.render()
	return false, err
}

// terminal is the presentation surface and cue player of the terminal client.
type terminal struct {
	out   io.Writer
	quiet bool

	screen    game.Screen
	board     game.Board
	tiles     map[int]game.TileState
	letter    string
	correct   int
	incorrect int
	best      int
	dirty     bool
}

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// tap selects a tile by index or by the letter printed on it.
func (t *terminal) tap(ctx context.Context, m *game.Machine, s string) error {
	idx, err := strconv.Atoi(s)
	if err != nil {
		idx = -1
		for i, c := range t.board.Cells {
			if strings.EqualFold(c, s) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("unknown command %q", s)
		}
	}
	_, err = m.SelectTile(ctx, idx)
	return err
}

func (t *terminal) Show(s game.Screen) {
	t.screen = s
	switch s {
	case game.ScreenStart:
		fmt.Fprintf(t.out, "%s  best: %d\n", yellow("ALPHABET BINGO"), t.best)
	case game.ScreenMode:
		fmt.Fprintln(t.out, "How should letters be called? mode names | mode sounds")
	case game.ScreenCase:
		fmt.Fprintln(t.out, "Which letters? case upper | case lower")
	case game.ScreenGrid:
		fmt.Fprintln(t.out, "How big a board? grid 1-5")
	case game.ScreenEnded:
		fmt.Fprintln(t.out, "Type 'again' to play again.")
	}
}

func (t *terminal) ShowBoard(b game.Board) {
	t.board = b
	t.tiles = map[int]game.TileState{}
	t.dirty = true
}

func (t *terminal) MarkTile(index int, st game.TileState) {
	if st == game.TileIncorrect {
		fmt.Fprintf(t.out, "%s %s is not %s\n", red("✗"), t.board.Cells[index], t.letter)
	}
	t.tiles[index] = st
	t.dirty = true
}

func (t *terminal) ShowLetter(letter string) {
	if letter != "" && letter != t.letter {
		fmt.Fprintf(t.out, "Find: %s\n", yellow(letter))
	}
	t.letter = letter
}

func (t *terminal) ShowCounts(correct, incorrect int) {
	t.correct, t.incorrect = correct, incorrect
}

func (t *terminal) ShowResult(r game.Result) {
	t.render()
	title := yellow(r.Title)
	if r.Won {
		title = green(r.Title + " " + r.Subtitle)
	}
	fmt.Fprintf(t.out, "%s score %d, %d incorrect\n", title, r.Score, r.Incorrect)
	if r.NewBest {
		fmt.Fprintln(t.out, green("New best!"))
	}
}

func (t *terminal) ShowBest(best int) { t.best = best }

func (t *terminal) Play(key string) error {
	if !t.quiet {
		fmt.Fprintln(t.out, faint("♪ "+key))
	}
	return nil
}

func (t *terminal) StartMusic(key string) error { return t.Play(key) }
func (t *terminal) StopMusic()                  {}

// render prints the board if it changed since the last render.
func (t *terminal) render() {
	if !t.dirty || t.board.Size == 0 {
		return
	}
	t.dirty = false
	var sb strings.Builder
	for row := 0; row < t.board.Size; row++ {
		for col := 0; col < t.board.Size; col++ {
			i := t.board.Index(row, col)
			cell := fmt.Sprintf("%2d:%s", i, t.board.Cells[i])
			if t.tiles[i] == game.TileCorrect {
				cell = green(cell)
			}
			sb.WriteString(cell + "  ")
		}
		sb.WriteString("\n")
	}
	fmt.Fprint(t.out, sb.String())
	fmt.Fprintf(t.out, "correct %d  incorrect %d\n", t.correct, t.incorrect)
}

func (t *terminal) prompt() { fmt.Fprint(t.out, "> ") }

func (t *terminal) warn(err error) { fmt.Fprintln(t.out, red(err.Error())) }
