// Package scheduler runs deferred background work with at-least-once
// semantics: tasks are keyed by name, wait for their constraints to hold
// and are retried with exponential backoff until they report success or a
// permanent failure.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/client/connectivity"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Result is what a task reports after one attempt.
type Result int

const (
	// Success ends the job.
	Success Result = iota
	// Retry asks for another attempt after a backoff delay.
	Retry
	// Failure ends the job without further attempts.
	Failure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Retry:
		return "retry"
	default:
		return "failure"
	}
}

// Task is a unit of deferrable work. Tasks with the same Name are coalesced.
type Task interface {
	Name() string
	Run(ctx context.Context) Result
}

// Constraints gate when a task may start an attempt.
type Constraints struct {
	RequiresNetwork bool
}

var (
	errRetryRequested = errors.New("task requested retry")
	errTaskFailed     = errors.New("task failed")
	ErrShutdown       = errors.New("scheduler is shut down")
)

type Options struct {
	// BaseDelay and MaxDelay bound the exponential backoff between attempts.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// MaxAttempts caps attempts per job; zero means unlimited.
	MaxAttempts uint64
	// PollInterval is how often a network-gated job re-checks the oracle
	// when the oracle cannot push changes.
	PollInterval time.Duration
	// NewBackoff overrides the backoff policy built from the delays above.
	NewBackoff func() retry.Backoff
}

type job struct {
	task        Task
	constraints Constraints
	started     bool
	rerun       bool
}

// Scheduler owns the background goroutines of every enqueued job.
type Scheduler struct {
	oracle connectivity.Oracle
	opts   Options
	logger logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]*job
}

func New(oracle connectivity.Oracle, opts Options, l logging.Logger) *Scheduler {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Minute
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		oracle: oracle,
		opts:   opts,
		logger: l.With("module", "scheduler"),
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*job),
	}
}

func (s *Scheduler) newBackoff() retry.Backoff {
	if s.opts.NewBackoff != nil {
		return s.opts.NewBackoff()
	}
	b := retry.NewExponential(s.opts.BaseDelay)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithCappedDuration(s.opts.MaxDelay, b)
	if s.opts.MaxAttempts > 0 {
		b = retry.WithMaxRetries(s.opts.MaxAttempts-1, b)
	}
	return b
}

// Enqueue schedules t. If a job with the same name is waiting for its first
// attempt it is left alone; once it has started, it will run one more time
// after it finishes.
func (s *Scheduler) Enqueue(t Task, c Constraints) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return ErrShutdown
	}

	if j, ok := s.jobs[t.Name()]; ok {
		if j.started {
			j.rerun = true
		}
		return nil
	}

	j := &job{task: t, constraints: c}
	s.jobs[t.Name()] = j

	s.wg.Add(1)
	go s.process(j)
	return nil
}

// Pending reports whether a job named name is queued or running.
func (s *Scheduler) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[name]
	return ok
}

func (s *Scheduler) process(j *job) {
	defer s.wg.Done()
	name := j.task.Name()

	for {
		err := retry.Do(s.ctx, s.newBackoff(), func(ctx context.Context) error {
			return s.attempt(ctx, j)
		})

		switch {
		case err == nil:
			s.logger.Debug(s.ctx, "task finished", "task", name)
		case errors.Is(err, context.Canceled):
			s.logger.Info(s.ctx, "task abandoned on shutdown", "task", name)
		default:
			s.logger.Warn(s.ctx, "task gave up", "task", name, "error", err)
		}

		s.mu.Lock()
		if j.rerun && s.ctx.Err() == nil {
			j.rerun = false
			j.started = false
			s.mu.Unlock()
			continue
		}
		delete(s.jobs, name)
		s.mu.Unlock()
		return
	}
}

func (s *Scheduler) attempt(ctx context.Context, j *job) error {
	if err := s.awaitConstraints(ctx, j.constraints); err != nil {
		return err
	}

	s.markStarted(j)
	res := j.task.Run(ctx)

	s.logger.Debug(ctx, "task attempt", "task", j.task.Name(), "result", res.String())

	switch res {
	case Success:
		return nil
	case Retry:
		return retry.RetryableError(errRetryRequested)
	default:
		return errTaskFailed
	}
}

func (s *Scheduler) markStarted(j *job) {
	s.mu.Lock()
	j.started = true
	s.mu.Unlock()
}

func (s *Scheduler) awaitConstraints(ctx context.Context, c Constraints) error {
	if !c.RequiresNetwork || s.oracle.IsReachable() {
		return nil
	}

	var changes <-chan bool
	if n, ok := s.oracle.(connectivity.Notifier); ok {
		ch, unsubscribe := n.Subscribe()
		defer unsubscribe()
		changes = ch
	}

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		if s.oracle.IsReachable() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-changes:
		}
	}
}

// Shutdown stops accepting work, cancels running jobs and waits for their
// goroutines until ctx expires.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
