package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/client/connectivity"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTask struct {
	name  string
	calls atomic.Int32
	run   func(n int32, ctx context.Context) Result
}

func (f *fakeTask) Name() string { return f.name }

func (f *fakeTask) Run(ctx context.Context) Result {
	n := f.calls.Add(1)
	if f.run == nil {
		return Success
	}
	return f.run(n, ctx)
}

func fastOptions() Options {
	return Options{
		PollInterval: time.Millisecond,
		NewBackoff:   func() retry.Backoff { return retry.NewConstant(time.Millisecond) },
	}
}

func newScheduler(t *testing.T, oracle connectivity.Oracle, opts Options) *Scheduler {
	t.Helper()
	s := New(oracle, opts, logging.Nop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s
}

func waitIdle(t *testing.T, s *Scheduler, name string) {
	t.Helper()
	require.Eventually(t, func() bool { return !s.Pending(name) }, 2*time.Second, time.Millisecond)
}

func TestEnqueue_SuccessRunsOnce(t *testing.T) {
	s := newScheduler(t, connectivity.NewStatic(true), fastOptions())
	task := &fakeTask{name: "sync"}

	require.NoError(t, s.Enqueue(task, Constraints{RequiresNetwork: true}))
	waitIdle(t, s, "sync")

	assert.Equal(t, int32(1), task.calls.Load())
}

func TestEnqueue_RetryUntilSuccess(t *testing.T) {
	s := newScheduler(t, connectivity.NewStatic(true), fastOptions())
	task := &fakeTask{name: "sync", run: func(n int32, _ context.Context) Result {
		if n < 3 {
			return Retry
		}
		return Success
	}}

	require.NoError(t, s.Enqueue(task, Constraints{}))
	waitIdle(t, s, "sync")

	assert.Equal(t, int32(3), task.calls.Load())
}

func TestEnqueue_FailureStops(t *testing.T) {
	s := newScheduler(t, connectivity.NewStatic(true), fastOptions())
	task := &fakeTask{name: "sync", run: func(int32, context.Context) Result { return Failure }}

	require.NoError(t, s.Enqueue(task, Constraints{}))
	waitIdle(t, s, "sync")

	assert.Equal(t, int32(1), task.calls.Load())
}

func TestEnqueue_MaxAttempts(t *testing.T) {
	s := newScheduler(t, connectivity.NewStatic(true), Options{
		BaseDelay:    time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		MaxAttempts:  3,
		PollInterval: time.Millisecond,
	})
	task := &fakeTask{name: "sync", run: func(int32, context.Context) Result { return Retry }}

	require.NoError(t, s.Enqueue(task, Constraints{}))
	waitIdle(t, s, "sync")

	assert.Equal(t, int32(3), task.calls.Load())
}

func TestEnqueue_WaitsForNetwork(t *testing.T) {
	oracle := connectivity.NewStatic(false)
	opts := fastOptions()
	opts.PollInterval = time.Hour
	s := newScheduler(t, oracle, opts)
	task := &fakeTask{name: "sync"}

	require.NoError(t, s.Enqueue(task, Constraints{RequiresNetwork: true}))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), task.calls.Load(), "must not run while offline")
	assert.True(t, s.Pending("sync"))

	oracle.Set(true)
	waitIdle(t, s, "sync")
	assert.Equal(t, int32(1), task.calls.Load())
}

func TestEnqueue_NoNetworkConstraintRunsOffline(t *testing.T) {
	s := newScheduler(t, connectivity.NewStatic(false), fastOptions())
	task := &fakeTask{name: "local"}

	require.NoError(t, s.Enqueue(task, Constraints{}))
	waitIdle(t, s, "local")
	assert.Equal(t, int32(1), task.calls.Load())
}

func TestEnqueue_CoalescesWhileWaiting(t *testing.T) {
	oracle := connectivity.NewStatic(false)
	s := newScheduler(t, oracle, fastOptions())
	task := &fakeTask{name: "sync"}

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Enqueue(task, Constraints{RequiresNetwork: true}))
	}
	oracle.Set(true)
	waitIdle(t, s, "sync")

	assert.Equal(t, int32(1), task.calls.Load())
}

func TestEnqueue_WhileRunningRunsOnceMore(t *testing.T) {
	s := newScheduler(t, connectivity.NewStatic(true), fastOptions())

	started := make(chan struct{})
	release := make(chan struct{})
	task := &fakeTask{name: "sync", run: func(n int32, _ context.Context) Result {
		if n == 1 {
			close(started)
			<-release
		}
		return Success
	}}

	require.NoError(t, s.Enqueue(task, Constraints{}))
	<-started
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Enqueue(task, Constraints{}))
	}
	close(release)
	waitIdle(t, s, "sync")

	assert.Equal(t, int32(2), task.calls.Load())
}

func TestShutdown_CancelsWaitingAndRejectsNew(t *testing.T) {
	s := New(connectivity.NewStatic(false), fastOptions(), logging.Nop())
	task := &fakeTask{name: "sync"}
	require.NoError(t, s.Enqueue(task, Constraints{RequiresNetwork: true}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	assert.Equal(t, int32(0), task.calls.Load())
	assert.False(t, s.Pending("sync"))
	assert.ErrorIs(t, s.Enqueue(task, Constraints{}), ErrShutdown)
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "retry", Retry.String())
	assert.Equal(t, "failure", Failure.String())
}
