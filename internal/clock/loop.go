package clock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopClosed is returned when work is posted to a closed Loop.
var ErrLoopClosed = errors.New("clock: loop closed")

// Loop is a serial executor. Everything posted to it, including timer
// callbacks created through Loop.AfterFunc, runs one at a time on whichever
// goroutine drains it, so state owned by the loop needs no locking.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop returns a loop with the given queue capacity.
func NewLoop(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f to be posted to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		l.Post(f)
	})
}

// Post queues f. It blocks while the queue is full and reports false once
// the loop is closed.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- f:
		return true
	case <-l.done:
		return false
	}
}

// Call runs f on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		f()
	}) {
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Tasks exposes the queue to hosts that drain the loop themselves.
func (l *Loop) Tasks() <-chan func() {
	return l.queue
}

// Done is closed once the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Run drains the queue until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case f := <-l.queue:
			f()
		}
	}
}

// Close stops accepting work. Queued work that has not run yet is dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
