package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no runs after Stop")
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	s := NewScheduler(context.Background())

	entered := make(chan struct{})
	s.AddJob("blocking", time.Hour, func(ctx context.Context) error {
		close(entered)
		<-ctx.Done()
		return ctx.Err()
	})
	s.Start()
	<-entered

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestScheduler_RunOnceJoinsErrorsAndRecoversPanics(t *testing.T) {
	s := NewScheduler(context.Background())
	errBoom := errors.New("boom")

	var ran []string
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	})
	s.AddJob("fails", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "fails")
		return errBoom
	})
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "panics")
		panic("unexpected")
	})
	s.AddJob("after", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "after")
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, []string{"ok", "fails", "panics", "after"}, ran)
	assert.Equal(t, []string{"ok", "fails", "panics", "after"}, s.Jobs())
}

func TestScheduler_AddAfterStartIgnored(t *testing.T) {
	s := NewScheduler(context.Background())
	s.Start()
	defer s.Stop()

	s.AddJob("late", time.Hour, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.Jobs())
}
