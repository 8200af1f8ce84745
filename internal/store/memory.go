// internal/store/memory.go
//
// In-memory session store.
// Each Session pairs a game.Machine with the event.Outbox it renders into.
//
// Characteristics:
//   - Sessions keyed by ID in a map, guarded by an RWMutex.
//   - Each session has its own mutex; Session.Do runs one event to completion
//     (after any due pacing tasks) before the next can start.
//   - Sweep runs due pacing tasks for every session and evicts idle ones.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"

	"github.com/robalobadob/alphabet-bingo/internal/event"
	"github.com/robalobadob/alphabet-bingo/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one player's game.
type Session struct {
	ID      string
	Machine *game.Machine
	Outbox  *event.Outbox

	mu       sync.Mutex
	lastSeen time.Time
}

// NewSession wraps a machine and its outbox; id usually comes from NewID.
func NewSession(id string, m *game.Machine, out *event.Outbox, now time.Time) *Session {
	return &Session{ID: id, Machine: m, Outbox: out, lastSeen: now}
}

// NewID returns an ID like "brave-otter-3fa9c2".
func NewID() string {
	var b [3]byte
	_, _ = rand.Read(b[:])
	return petname.Generate(2, "-") + "-" + hex.EncodeToString(b[:])
}

// Do locks the session, runs due pacing tasks, then fn.
func (s *Session) Do(ctx context.Context, now time.Time, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
	s.Machine.Advance(ctx)
	fn(s)
}

// idleSince reports whether the session has been untouched since cutoff.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// advance runs due pacing tasks without touching lastSeen.
func (s *Session) advance(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Machine.Advance(ctx)
}

// Store defines the persistence interface for sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Len() int
	// Sweep runs due pacing tasks of every session and evicts sessions idle
	// since before now-idle. It returns how many were evicted.
	Sweep(ctx context.Context, now time.Time, idle time.Duration) int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Sweep(ctx context.Context, now time.Time, idle time.Duration) int {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	cutoff := now.Add(-idle)
	evicted := 0
	for _, s := range all {
		if idle > 0 && s.idleSince(cutoff) {
			_ = m.Delete(ctx, s.ID)
			evicted++
			continue
		}
		s.advance(ctx)
	}
	return evicted
}
