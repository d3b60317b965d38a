package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lectern/pkg/adapters/loam"
)

// reloadDelay lets editors finish writing before the lesson is read again.
const reloadDelay = 100 * time.Millisecond

// WatchLesson calls reload whenever a file of the lesson in dir changes,
// until ctx is done. Bursts of events cause a single reload. A failed reload
// is logged and the previous page stays in place.
func WatchLesson(ctx context.Context, dir string, logger *slog.Logger, reload func(context.Context) error) error {
	loader, err := loam.Open(dir)
	if err != nil {
		return err
	}
	events, err := loader.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Starting Watcher", "path", dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case id, ok := <-events:
			if !ok {
				return nil
			}
			logger.Info("Change detected, reloading", "id", id)
			if !drain(ctx, events, reloadDelay) {
				return nil
			}
			if err := reload(ctx); err != nil {
				logger.Error("Reload failed", "err", err)
			}
		}
	}
}

// drain discards events until none arrive for d. It returns false when ctx
// ends or the channel closes.
func drain(ctx context.Context, events <-chan string, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case _, ok := <-events:
			if !ok {
				return false
			}
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(d)
		case <-timer.C:
			return true
		}
	}
}
