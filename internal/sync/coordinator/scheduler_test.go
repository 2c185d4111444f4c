package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/mgnrega-dashboard-server/internal/sources"
	pkgsync "github.com/stacklok/mgnrega-dashboard-server/internal/sync"
)

// countingSyncer returns err from every call
type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (s *countingSyncer) StartSync(context.Context) (*Result, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Success: true, Source: sources.KindReal}, nil
}

func runScheduler(t *testing.T, s *Scheduler) <-chan error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(context.Background()) }()
	t.Cleanup(func() { _ = s.Stop() })
	return errCh
}

func TestSchedulerRunsOnStartAndEveryInterval(t *testing.T) {
	t.Parallel()
	syncer := &countingSyncer{}
	s := NewScheduler(syncer, 10*time.Millisecond, WithRunOnStart(true))

	errCh := runScheduler(t, s)
	require.Eventually(t, func() bool { return syncer.calls.Load() >= 3 }, 5*time.Second, time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, <-errCh)

	calls := syncer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, syncer.calls.Load(), "no trigger after Stop")
}

func TestSchedulerKeepsRunningAfterFailures(t *testing.T) {
	t.Parallel()

	for _, err := range []error{errors.New("store down"), pkgsync.ErrSyncInProgress} {
		syncer := &countingSyncer{err: err}
		s := NewScheduler(syncer, 5*time.Millisecond)

		runScheduler(t, s)
		require.Eventually(t, func() bool { return syncer.calls.Load() >= 3 }, 5*time.Second, time.Millisecond)
		require.NoError(t, s.Stop())
	}
}

func TestSchedulerWithoutRunOnStartWaitsForInterval(t *testing.T) {
	t.Parallel()
	syncer := &countingSyncer{}
	s := NewScheduler(syncer, time.Hour)

	runScheduler(t, s)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, syncer.calls.Load())
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	t.Parallel()
	s := NewScheduler(&countingSyncer{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	require.NoError(t, s.Stop())
}

func TestSchedulerStartTwice(t *testing.T) {
	t.Parallel()
	s := NewScheduler(&countingSyncer{}, time.Hour)
	runScheduler(t, s)

	require.Eventually(t, s.started.Load, time.Second, time.Millisecond)
	require.Error(t, s.Start(context.Background()))
}

func TestSchedulerStopBeforeStart(t *testing.T) {
	t.Parallel()
	s := NewScheduler(&countingSyncer{}, time.Hour)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}

func TestSchedulerWithNonPositiveInterval(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&countingSyncer{}, 0)
	assert.Equal(t, DefaultInterval, s.interval)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NotPanics(t, func() { _ = s.Start(ctx) })
}
