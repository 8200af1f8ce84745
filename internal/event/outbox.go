// internal/event/outbox.go
//
// Outbox is the presentation surface and cue player of a remote client.
// The Machine pushes visible changes and cue requests into it; the client
// drains them in order (GET /session/events) and renders / plays them.
//
// Characteristics:
//   - FIFO backed by a deque; oldest events are dropped past the limit.
//   - Cue keys are resolved to asset URLs through the cue table; keys with
//     no asset are skipped.
//   - Music cannot start until the client reports an interaction, matching
//     browser autoplay rules.
//   - Not safe for concurrent use; the session lock serializes access.

package event

import (
	"github.com/gammazero/deque"

	"github.com/robalobadob/alphabet-bingo/internal/cue"
	"github.com/robalobadob/alphabet-bingo/internal/game"
)

// Kind tags an event.
type Kind string

const (
	KindScreen Kind = "screen"
	KindBoard  Kind = "board"
	KindTile   Kind = "tile"
	KindLetter Kind = "letter"
	KindCounts Kind = "counts"
	KindResult Kind = "result"
	KindBest   Kind = "best"
	KindCue    Kind = "cue"
	KindMusic  Kind = "music"
)

// DefaultLimit bounds an undrained outbox.
const DefaultLimit = 256

// Counts is the running tally shown during play.
type Counts struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
}

// Event is one change for the client. Only the fields of its Kind are set.
type Event struct {
	Seq    uint64         `json:"seq"`
	Kind   Kind           `json:"kind"`
	Screen game.Screen    `json:"screen,omitempty"`
	Board  *game.Board    `json:"board,omitempty"`
	Index  *int           `json:"index,omitempty"`
	Tile   game.TileState `json:"tile,omitempty"`
	Letter *string        `json:"letter,omitempty"`
	Counts *Counts        `json:"counts,omitempty"`
	Result *game.Result   `json:"result,omitempty"`
	Best   *int           `json:"best,omitempty"`
	Cue    string         `json:"cue,omitempty"`
	URL    string         `json:"url,omitempty"`
	Music  string         `json:"music,omitempty"` // "start" | "stop"
}

// Outbox queues events for one client.
type Outbox struct {
	q         deque.Deque
	seq       uint64
	limit     int
	dropped   int
	cues      cue.Table
	unblocked bool
	musicOn   bool
}

// NewOutbox returns an outbox resolving cues through cues. limit <= 0 uses DefaultLimit.
func NewOutbox(cues cue.Table, limit int) *Outbox {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Outbox{cues: cues, limit: limit}
}

func (o *Outbox) push(e Event) {
	o.seq++
	e.Seq = o.seq
	o.q.PushBack(e)
	for o.q.Len() > o.limit {
		o.q.PopFront()
		o.dropped++
	}
}

// Drain removes and returns every queued event, oldest first.
func (o *Outbox) Drain() []Event {
	out := make([]Event, 0, o.q.Len())
	for o.q.Len() > 0 {
		out = append(out, o.q.PopFront().(Event))
	}
	return out
}

// Len reports queued events.
func (o *Outbox) Len() int { return o.q.Len() }

// Dropped reports how many events were discarded for exceeding the limit.
func (o *Outbox) Dropped() int { return o.dropped }

// Unblock records that the client may now start playback.
func (o *Outbox) Unblock() { o.unblocked = true }

// ---------------------------- game.Presenter -------------------------------

func (o *Outbox) Show(s game.Screen) { o.push(Event{Kind: KindScreen, Screen: s}) }

func (o *Outbox) ShowBoard(b game.Board) {
	b.Cells = append([]string(nil), b.Cells...)
	o.push(Event{Kind: KindBoard, Board: &b})
}

func (o *Outbox) MarkTile(index int, st game.TileState) {
	o.push(Event{Kind: KindTile, Index: &index, Tile: st})
}

func (o *Outbox) ShowLetter(letter string) { o.push(Event{Kind: KindLetter, Letter: &letter}) }

func (o *Outbox) ShowCounts(correct, incorrect int) {
	o.push(Event{Kind: KindCounts, Counts: &Counts{Correct: correct, Incorrect: incorrect}})
}

func (o *Outbox) ShowResult(r game.Result) { o.push(Event{Kind: KindResult, Result: &r}) }

func (o *Outbox) ShowBest(best int) { o.push(Event{Kind: KindBest, Best: &best}) }

// ---------------------------- game.CuePlayer -------------------------------

// Play queues a cue. Keys missing from the table queue nothing and report
// cue.ErrUnknownCue.
func (o *Outbox) Play(key string) error {
	url, err := o.cues.MustLookup(key)
	if err != nil {
		return err
	}
	o.push(Event{Kind: KindCue, Cue: key, URL: url})
	return nil
}

// StartMusic queues the looping track unless it is already on. Before the
// client has interacted it fails with cue.ErrPlaybackBlocked.
func (o *Outbox) StartMusic(key string) error {
	if !o.unblocked {
		return cue.ErrPlaybackBlocked
	}
	if o.musicOn {
		return nil
	}
	url, err := o.cues.MustLookup(key)
	if err != nil {
		return err
	}
	o.musicOn = true
	o.push(Event{Kind: KindMusic, Cue: key, URL: url, Music: "start"})
	return nil
}

// StopMusic queues a stop if the track is on.
func (o *Outbox) StopMusic() {
	if !o.musicOn {
		return
	}
	o.musicOn = false
	o.push(Event{Kind: KindMusic, Music: "stop"})
}
