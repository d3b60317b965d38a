package ports

import "time"

// Timer is a scheduled task that can be cancelled.
type Timer interface {
	// Stop prevents the task from running. It returns false if the task
	// already ran or was already stopped.
	Stop() bool
}

// Clock schedules one-shot tasks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}
