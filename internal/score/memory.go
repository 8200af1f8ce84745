package score

import (
	"context"
	"sync"
)

// Memory is a process-local Store, used by the terminal client and tests.
type Memory struct {
	mu   sync.RWMutex
	best int
}

// NewMemory returns a store holding best.
func NewMemory(best int) *Memory { return &Memory{best: best} }

func (m *Memory) BestScore(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.best, nil
}

func (m *Memory) SetBestScore(ctx context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best = score
	return nil
}

// Unavailable is a Store that can be neither read nor written. It stands
// in when the database cannot be opened.
type Unavailable struct{}

func (Unavailable) BestScore(context.Context) (int, error)  { return 0, ErrPersistenceUnavailable }
func (Unavailable) SetBestScore(context.Context, int) error { return ErrPersistenceUnavailable }
