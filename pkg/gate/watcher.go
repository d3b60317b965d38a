// Package gate implements the readiness primitive shared by the controllers.
//
// A Watcher observes a single gate variable. It reports readiness under
// domain.IsReady and, when given an OnReady callback, runs it once per arm
// cycle a fixed delay after the first not-ready to ready transition.
package gate

import (
	"log/slog"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// Watcher tracks one gate variable.
// It is not safe for concurrent use; it must be owned by the same goroutine
// as the store writes it observes (see package loop).
type Watcher struct {
	store    ports.VariableStore
	key      string
	clock    ports.Clock
	delay    time.Duration
	onReady  func()
	onChange func(ready bool)
	logger   *slog.Logger

	active bool // subscribed
	armed  bool // the cycle's callback has not run yet
	ready  bool // last observed readiness

	timer ports.Timer
	task  uint64 // identifies the pending timer; bumped on cancel
	unsub ports.UnsubscribeFunc

	evals int
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the delay between readiness and the OnReady callback.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithClock sets the clock used to schedule the callback.
func WithClock(c ports.Clock) Option {
	return func(w *Watcher) {
		w.clock = c
	}
}

// OnReady registers the one-shot callback.
func OnReady(fn func()) Option {
	return func(w *Watcher) {
		w.onReady = fn
	}
}

// OnChange registers an observer for readiness transitions.
func OnChange(fn func(ready bool)) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a disarmed watcher for key.
func New(store ports.VariableStore, key string, opts ...Option) *Watcher {
	w := &Watcher{
		store:  store,
		key:    key,
		clock:  clock.NewSystem(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Key returns the watched variable name.
func (w *Watcher) Key() string {
	return w.key
}

// Ready reports the current readiness of the gate variable.
// A variable that was never written reads as "" and is not ready.
func (w *Watcher) Ready() bool {
	return domain.IsReady(w.store.Read(w.key, ""))
}

// Armed reports whether the current cycle's callback is still due.
func (w *Watcher) Armed() bool {
	return w.active && w.armed
}

// Pending reports whether a callback is scheduled.
func (w *Watcher) Pending() bool {
	return w.timer != nil
}

// Evaluations counts how many values the watcher has observed while armed.
func (w *Watcher) Evaluations() int {
	return w.evals
}

// Arm subscribes to the gate variable and starts a new cycle.
// The current value is evaluated immediately: a gate that is already ready
// counts as the cycle's first transition. Arming an armed watcher is a no-op.
func (w *Watcher) Arm() {
	if w.active {
		return
	}
	w.active = true
	w.armed = true
	w.ready = false
	w.unsub = w.store.Subscribe(w.key, func(_ string, value any) {
		w.observe(value)
	})
	w.observe(w.store.Read(w.key, ""))
}

// Disarm cancels any pending callback and unsubscribes. It is idempotent.
func (w *Watcher) Disarm() {
	if !w.active {
		return
	}
	w.active = false
	w.armed = false
	w.ready = false
	w.cancel()
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
}

func (w *Watcher) observe(value any) {
	if !w.active {
		return
	}
	w.evals++

	ready := domain.IsReady(value)
	if ready == w.ready {
		return
	}
	w.ready = ready
	if w.onChange != nil {
		w.onChange(ready)
	}

	if !ready {
		if w.timer != nil {
			w.logger.Debug("gate reverted before delay elapsed", "key", w.key)
		}
		w.cancel()
		return
	}

	if w.armed && w.onReady != nil && w.timer == nil {
		w.schedule()
	}
}

func (w *Watcher) schedule() {
	w.task++
	task := w.task
	w.timer = w.clock.AfterFunc(w.delay, func() {
		w.fire(task)
	})
	w.logger.Debug("gate ready, callback scheduled", "key", w.key, "delay", w.delay)
}

func (w *Watcher) fire(task uint64) {
	// A timer that was cancelled may still be delivered through a queue.
	if task != w.task || w.timer == nil || !w.active || !w.armed {
		return
	}
	w.timer = nil
	w.armed = false
	w.onReady()
}

func (w *Watcher) cancel() {
	if w.timer == nil {
		return
	}
	w.timer.Stop()
	w.timer = nil
	w.task++
}
