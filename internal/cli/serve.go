package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/lectern/pkg/adapters/http"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// ServeOptions configure RunServe.
type ServeOptions struct {
	Options
	Port  int  // overrides http.port when non-zero
	Watch bool // rebuild the page when lesson files change
}

// RunServe hosts the lesson over HTTP until ctx is done.
func RunServe(ctx context.Context, opts ServeOptions) error {
	cfg, err := LoadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	port := cfg.HTTP.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l := loop.New(64)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.Run(ctx) })

	store, closeStore, err := NewStore(ctx, cfg.Store, l, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var (
		metrics *observability.Metrics
		srvOpts = []httpAdapter.Option{httpAdapter.WithLogger(logger)}
	)
	if cfg.HTTP.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if metrics, err = observability.NewMetrics(reg); err != nil {
			return err
		}
		srvOpts = append(srvOpts, httpAdapter.WithGatherer(reg))
	}
	srv := httpAdapter.NewServer(l, store, srvOpts...)

	load := func(ctx context.Context) error {
		page, err := lesson.Open(ctx, opts.Dir, store,
			lesson.WithClock(loop.Clock(clock.NewSystem(), l)),
			lesson.WithLogger(logger),
			lesson.WithLifecycleHooks(Hooks(logger, metrics)),
			lesson.WithContext(ctx),
			lesson.WithOnChange(srv.Notify),
		)
		if err != nil {
			return err
		}
		logger.Info("Lesson loaded", "lesson", page.Title(), "layout", page.Layout(), "items", page.Controller.Total())
		return srv.SetPage(ctx, page)
	}
	if err := load(ctx); err != nil {
		return fmt.Errorf("failed to load lesson: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		logger.Info("Starting Lectern Server", "address", httpServer.Addr, "dir", opts.Dir)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return shutdown(httpServer, logger)
	})
	if opts.Watch {
		g.Go(func() error { return WatchLesson(ctx, opts.Dir, logger, load) })
	}

	if err := g.Wait(); !isShutdown(err) {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func shutdown(srv *http.Server, logger *slog.Logger) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("Shutdown signal received, shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	return nil
}
