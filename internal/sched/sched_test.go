package sched_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/alphabet-bingo/internal/sched"
)

func TestRunDueHonorsDelaysAndOrder(t *testing.T) {
	clk := sched.NewManualClock()
	s := sched.New(clk.Now)
	ctx := context.Background()

	var got []string
	record := func(name string) sched.Task {
		return func(context.Context) { got = append(got, name) }
	}
	s.After(400*time.Millisecond, "next", record("next"))
	s.After(150*time.Millisecond, "cue", record("cue"))
	s.After(150*time.Millisecond, "cue2", record("cue2"))

	assert.Equal(t, 0, s.RunDue(ctx))
	assert.Equal(t, []string{"cue", "cue2", "next"}, s.PendingNames())

	clk.Add(200 * time.Millisecond)
	assert.Equal(t, 2, s.RunDue(ctx))
	assert.Equal(t, []string{"cue", "cue2"}, got)

	due, ok := s.NextDue()
	require.True(t, ok)
	assert.Equal(t, clk.Now().Add(200*time.Millisecond), due)

	clk.Add(time.Second)
	assert.Equal(t, 1, s.RunDue(ctx))
	assert.Equal(t, []string{"cue", "cue2", "next"}, got)
	assert.Equal(t, 0, s.Pending())
}

func TestNewGenerationDropsStaleTasks(t *testing.T) {
	clk := sched.NewManualClock()
	s := sched.New(clk.Now)
	ctx := context.Background()

	fired := 0
	s.After(time.Millisecond, "old", func(context.Context) { fired++ })
	g := s.NewGeneration()
	assert.Equal(t, uint64(2), g)
	assert.Equal(t, 0, s.Pending())

	clk.Add(time.Second)
	assert.Equal(t, 0, s.RunDue(ctx))
	assert.Equal(t, 0, fired)
}

func TestTaskFromOldGenerationScheduledDuringRunIsSkipped(t *testing.T) {
	clk := sched.NewManualClock()
	s := sched.New(clk.Now)
	ctx := context.Background()

	fired := 0
	s.After(0, "reset", func(context.Context) { s.NewGeneration() })
	s.After(0, "stale", func(context.Context) { fired++ })

	s.RunDue(ctx)
	assert.Equal(t, 0, fired)
}

func TestDrainRunsChainedTasks(t *testing.T) {
	s := sched.New(nil)
	ctx := context.Background()

	n := 0
	var step sched.Task
	step = func(context.Context) {
		n++
		if n < 5 {
			s.After(time.Hour, "step", step)
		}
	}
	s.After(time.Hour, "step", step)

	assert.Equal(t, 5, s.Drain(ctx))
	assert.Equal(t, 0, s.Pending())
}

func TestDrainIsBounded(t *testing.T) {
	s := sched.New(nil)
	var loop sched.Task
	loop = func(context.Context) { s.After(0, "loop", loop) }
	s.After(0, "loop", loop)

	ran := s.Drain(context.Background())
	assert.Equal(t, 1024, ran)
	assert.Equal(t, 1, s.Pending())
}
