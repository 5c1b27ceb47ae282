// Package uiloop provides the single scheduling goroutine that owns all
// overlay, recorder and session state.
package uiloop

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"glimpse/internal/workerutil"
)

// Scheduler runs work on the UI goroutine.
type Scheduler interface {
	// Post enqueues fn. It never blocks on fn running.
	Post(fn func())
	// After posts fn once d has elapsed. cancel is idempotent and prevents
	// fn from running if it has not been posted yet.
	After(d time.Duration, fn func()) (cancel func())
}

// ErrStopped is returned by Call when the loop is not running.
var ErrStopped = errors.New("ui loop stopped")

const defaultQueueSize = 256

// Loop serializes posted functions onto one goroutine.
type Loop struct {
	queue    chan func()
	done     chan struct{}
	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
}

// New returns a loop that is not yet running.
func New() *Loop {
	return &Loop{
		queue: make(chan func(), defaultQueueSize),
		done:  make(chan struct{}),
	}
}

// Start runs the loop goroutine under wg until ctx is cancelled or Stop is
// called. A panicking task is recovered and the loop resumes.
func (l *Loop) Start(ctx context.Context, wg *sync.WaitGroup) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	workerutil.RunWithPanicRecovery(ctx, "ui-loop", wg, l.run, workerutil.RecoveryOptions{
		InitialBackoff: time.Millisecond,
		MaxBackoff:     50 * time.Millisecond,
		MaxRetries:     100,
		IsShutdown:     l.stopped.Load,
	})
}

func (l *Loop) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post enqueues fn. Work posted after Stop is dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil || l.stopped.Load() {
		return
	}
	select {
	case l.queue <- fn:
	case <-l.done:
		slog.Debug("[DEBUG-UILOOP] post after stop dropped")
	}
}

// After implements Scheduler using a runtime timer.
func (l *Loop) After(d time.Duration, fn func()) (cancel func()) {
	var cancelled atomic.Bool
	timer := time.AfterFunc(d, func() {
		l.Post(func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
	})
	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

// Call runs fn on the loop and waits for it to finish.
// It must not be called from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	if l.stopped.Load() {
		return ErrStopped
	}
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the loop. Pending work is discarded. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.done)
	})
}
