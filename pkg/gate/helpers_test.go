package gate_test

import (
	"time"

	"github.com/aretw0/lectern/pkg/ports"
)

// deferClock models a loop-bound clock: callbacks are queued, not run.
type deferClock struct {
	base  ports.Clock
	queue *[]func()
}

func (c deferClock) Now() time.Time { return c.base.Now() }

func (c deferClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return c.base.AfterFunc(d, func() { *c.queue = append(*c.queue, f) })
}
