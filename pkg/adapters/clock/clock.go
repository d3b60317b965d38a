// Package clock provides ports.Clock implementations: the wall clock and a
// manually advanced clock for deterministic tests.
package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lectern/pkg/ports"
)

// System is the wall clock backed by time.AfterFunc.
type System struct{}

// NewSystem returns the wall clock.
func NewSystem() System { return System{} }

// Now implements ports.Clock.
func (System) Now() time.Time { return time.Now() }

// AfterFunc implements ports.Clock.
func (System) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

// Manual is a clock that only moves when Advance is called.
// Due tasks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	tasks  []*manualTimer
	nextID uint64
}

type manualTimer struct {
	clock   *Manual
	id      uint64
	due     time.Time
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements ports.Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc implements ports.Clock.
func (m *Manual) AfterFunc(d time.Duration, f func()) ports.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := &manualTimer{clock: m, id: m.nextID, due: m.now.Add(d), fn: f}
	m.tasks = append(m.tasks, t)
	return t
}

// Stop implements ports.Timer.
func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d and runs every task that became due,
// in due order. Tasks scheduled by a running task are honored if they fall
// within the advanced window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		next.fired = true
		m.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of scheduled tasks that have neither run nor been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// nextDue must be called with m.mu held.
func (m *Manual) nextDue(limit time.Time) *manualTimer {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.tasks = live

	sort.SliceStable(m.tasks, func(i, j int) bool {
		if m.tasks[i].due.Equal(m.tasks[j].due) {
			return m.tasks[i].id < m.tasks[j].id
		}
		return m.tasks[i].due.Before(m.tasks[j].due)
	})

	if len(m.tasks) == 0 || m.tasks[0].due.After(limit) {
		return nil
	}
	return m.tasks[0]
}
