// internal/sched/sched.go
//
// Pacing scheduler for a single session.
//
// Tasks are delayed callbacks (next letter call, audio cue, clearing an
// incorrect tile). Nothing runs on its own goroutine: the owner calls RunDue
// from its event loop, so tasks run to completion between other events.
//
// Every task is stamped with the generation current when it was scheduled.
// NewGeneration discards everything pending and any task that still surfaces
// from an older generation is skipped, so a timer that outlives its round
// has no effect on the next one.

package sched

import (
	"context"
	"sort"
	"time"
)

// Task is a scheduled callback.
type Task func(ctx context.Context)

// maxRuns bounds a single RunDue/Drain pass against tasks that keep
// rescheduling themselves with no delay.
const maxRuns = 1024

type pending struct {
	due  time.Time
	gen  uint64
	seq  uint64
	name string
	fn   Task
}

// Scheduler holds delayed tasks for one owner. It is not safe for concurrent
// use; the owner serializes access.
type Scheduler struct {
	now     func() time.Time
	gen     uint64
	seq     uint64
	pending []pending
}

// New returns a scheduler reading time from now (time.Now if nil).
func New(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now, gen: 1}
}

// Generation reports the current generation.
func (s *Scheduler) Generation() uint64 { return s.gen }

// NewGeneration drops every pending task and starts a new generation.
func (s *Scheduler) NewGeneration() uint64 {
	s.gen++
	s.pending = s.pending[:0]
	return s.gen
}

// After schedules fn to run once d has elapsed. name is only used for debugging.
func (s *Scheduler) After(d time.Duration, name string, fn Task) {
	s.seq++
	s.pending = append(s.pending, pending{
		due:  s.now().Add(d),
		gen:  s.gen,
		seq:  s.seq,
		name: name,
		fn:   fn,
	})
}

// Pending reports how many tasks are waiting.
func (s *Scheduler) Pending() int { return len(s.pending) }

// PendingNames lists pending task names in due order.
func (s *Scheduler) PendingNames() []string {
	s.sort()
	out := make([]string, len(s.pending))
	for i, p := range s.pending {
		out[i] = p.name
	}
	return out
}

// NextDue returns when the earliest pending task is due.
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.pending) == 0 {
		return time.Time{}, false
	}
	s.sort()
	return s.pending[0].due, true
}

// RunDue runs, in due order, every task whose time has come, including tasks
// scheduled by those tasks if they are already due. It returns how many ran.
func (s *Scheduler) RunDue(ctx context.Context) int {
	return s.run(ctx, false)
}

// Drain runs every pending task regardless of its due time, including tasks
// scheduled while draining. Used where pacing is irrelevant (terminal play, tests).
func (s *Scheduler) Drain(ctx context.Context) int {
	return s.run(ctx, true)
}

func (s *Scheduler) run(ctx context.Context, all bool) int {
	ran := 0
	for i := 0; i < maxRuns; i++ {
		if len(s.pending) == 0 {
			break
		}
		s.sort()
		next := s.pending[0]
		if !all && next.due.After(s.now()) {
			break
		}
		s.pending = s.pending[1:]
		if next.gen != s.gen {
			continue
		}
		next.fn(ctx)
		ran++
	}
	return ran
}

func (s *Scheduler) sort() {
	sort.SliceStable(s.pending, func(i, j int) bool {
		a, b := s.pending[i], s.pending[j]
		if !a.due.Equal(b.due) {
			return a.due.Before(b.due)
		}
		return a.seq < b.seq
	})
}

// ManualClock is a settable clock for deterministic pacing.
type ManualClock struct {
	t time.Time
}

// NewManualClock starts a clock at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time { return c.t }

// Add moves the clock forward.
func (c *ManualClock) Add(d time.Duration) { c.t = c.t.Add(d) }
