// Package loop provides the single goroutine that owns a page's controllers.
//
// Controllers are not safe for concurrent use; every navigation, store
// notification and timer callback that touches them must run on the loop.
// Hosts with concurrent inputs (HTTP handlers, terminal programs, MCP tools)
// submit work with Do or Post, and wrap their clock with Clock so that
// auto-advance timers fire on the loop as well.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/lectern/pkg/ports"
)

// ErrStopped is returned by Do when the loop is not running.
var ErrStopped = errors.New("loop stopped")

// Loop serializes functions onto a single goroutine.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once

	// Posts that found the queue full wait here in order. Post never blocks,
	// so a task running on the loop may post without deadlocking it.
	mu       sync.Mutex
	overflow []func()
	wake     chan struct{}
}

// New creates a loop with the given queue capacity.
func New(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		tasks: make(chan func(), capacity),
		done:  make(chan struct{}),
		wake:  make(chan struct{}, 1),
	}
}

// Run executes queued functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case <-l.wake:
			l.drain()
		}
	}
}

func (l *Loop) drain() {
	// Tasks already queued were posted before any overflow.
	for n := len(l.tasks); n > 0; n-- {
		(<-l.tasks)()
	}
	l.mu.Lock()
	pending := l.overflow
	l.overflow = nil
	l.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Post queues fn without waiting. Functions posted after the loop stopped are
// dropped. Posted functions run in order even when the queue is full.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.overflow) == 0 {
		select {
		case l.tasks <- fn:
			return
		default:
		}
	}
	l.overflow = append(l.overflow, fn)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to return. It is ordered with Post.
// If ctx ends before fn starts, fn is skipped.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var abandoned atomic.Bool
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		if abandoned.Load() {
			return
		}
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		abandoned.Store(true)
		return ctx.Err()
	}
}

// Done is closed once Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

var _ ports.Dispatcher = (*Loop)(nil)

type loopClock struct {
	base ports.Clock
	d    ports.Dispatcher
}

// Clock returns a clock whose callbacks are posted to d instead of running on
// the timer's goroutine.
func Clock(base ports.Clock, d ports.Dispatcher) ports.Clock {
	return loopClock{base: base, d: d}
}

func (c loopClock) Now() time.Time { return c.base.Now() }

func (c loopClock) AfterFunc(dur time.Duration, f func()) ports.Timer {
	return c.base.AfterFunc(dur, func() { c.d.Post(f) })
}
