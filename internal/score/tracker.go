// internal/score/tracker.go
//
// Tracker keeps the single best score across rounds.
//
// Persistence is best effort:
//   - A failed read counts as "no stored score" (0).
//   - A failed write is logged and skipped.
// Neither ever reaches the round-end flow as an error.

package score

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrPersistenceUnavailable marks a store that cannot be read or written.
var ErrPersistenceUnavailable = errors.New("score persistence unavailable")

// Store persists the best score.
type Store interface {
	// BestScore returns the stored best, 0 if none was stored yet.
	BestScore(ctx context.Context) (int, error)
	// SetBestScore overwrites the stored best.
	SetBestScore(ctx context.Context, score int) error
}

// Tracker compares final scores against the stored best. Safe for
// concurrent use; sessions share one Tracker.
type Tracker struct {
	mu    sync.Mutex
	store Store
	log   zerolog.Logger
}

// NewTracker wraps store. A nil logger disables logging.
func NewTracker(store Store, logger *zerolog.Logger) *Tracker {
	t := &Tracker{store: store, log: zerolog.Nop()}
	if logger != nil {
		t.log = *logger
	}
	return t
}

// Best returns the stored best score, or 0 if it cannot be read.
func (t *Tracker) Best(ctx context.Context) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.read(ctx)
}

// Record compares final against the stored best and stores it if higher.
// It returns the resulting best and whether final just became the best.
func (t *Tracker) Record(ctx context.Context, final int) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := t.read(ctx)
	if final <= best {
		return best, false
	}
	if err := t.store.SetBestScore(ctx, final); err != nil {
		t.log.Warn().Err(err).Int("score", final).Msg("best score not saved")
	}
	return final, true
}

// Reset clears the stored best score.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.SetBestScore(ctx, 0)
}

func (t *Tracker) read(ctx context.Context) int {
	best, err := t.store.BestScore(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("best score unreadable, using 0")
		return 0
	}
	if best < 0 {
		return 0
	}
	return best
}
