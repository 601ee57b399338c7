// Package connectivity answers "is the server reachable right now?" for the
// orchestrator and the background scheduler.
package connectivity

import (
	"context"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/dmitrijs2005/myshelf/internal/observable"
)

// Oracle reports current reachability. Implementations must be cheap and
// safe to call from any goroutine.
type Oracle interface {
	IsReachable() bool
}

// Notifier is implemented by oracles that can push reachability changes.
type Notifier interface {
	Subscribe() (<-chan bool, func())
}

// Prober performs one reachability check.
type Prober interface {
	Ping(ctx context.Context) error
}

// Watcher polls a Prober and caches the last answer.
type Watcher struct {
	probe    Prober
	interval time.Duration
	timeout  time.Duration
	logger   logging.Logger
	state    *observable.Value[bool]
}

func NewWatcher(p Prober, interval, timeout time.Duration, l logging.Logger) *Watcher {
	return &Watcher{
		probe:    p,
		interval: interval,
		timeout:  timeout,
		logger:   l.With("module", "connectivity"),
		state:    observable.NewValue(false),
	}
}

func (w *Watcher) IsReachable() bool {
	return w.state.Get()
}

func (w *Watcher) Subscribe() (<-chan bool, func()) {
	return w.state.Subscribe()
}

// Check probes once and records the result.
func (w *Watcher) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	err := w.probe.Ping(ctx)
	cancel()

	online := err == nil
	if online != w.state.Get() {
		if online {
			w.logger.Info(ctx, "server reachable")
		} else {
			w.logger.Warn(ctx, "server unreachable", "error", err)
		}
		w.state.Set(online)
	}
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Static is an Oracle whose answer is set by hand.
type Static struct {
	state *observable.Value[bool]
}

func NewStatic(reachable bool) *Static {
	return &Static{state: observable.NewValue(reachable)}
}

func (s *Static) IsReachable() bool { return s.state.Get() }

func (s *Static) Set(reachable bool) { s.state.Set(reachable) }

func (s *Static) Subscribe() (<-chan bool, func()) { return s.state.Subscribe() }
