// Package cli wires configuration, stores and hosts for the lectern commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/lectern/internal/config"
	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/adapters/redis"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/observability"
	"github.com/aretw0/lectern/pkg/ports"
)

// Options are shared by every command that opens a lesson.
type Options struct {
	Dir        string
	ConfigPath string
	Debug      bool
}

// SignalContext wraps a context and records the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()

	sigCh chan os.Signal
	once  sync.Once
	mu    sync.Mutex
	sig   os.Signal
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// Unlike signal.NotifyContext it remembers which signal arrived.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.once.Do(func() { signal.Stop(sc.sigCh) })
	}()

	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// LoadConfig reads the configuration named by opts.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// NewLogger builds the process logger. Logs always go to stderr so stdout
// stays free for page output and MCP stdio.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Format == "json" {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}

// NewStore creates the configured variable store. Remote changes are
// delivered through d. The returned close function is never nil.
func NewStore(ctx context.Context, cfg config.StoreConfig, d ports.Dispatcher, logger *slog.Logger) (ports.VariableStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		r := cfg.Redis
		store := redis.New(r.Addr, r.Password, r.DB,
			redis.WithPrefix(r.Prefix),
			redis.WithTTL(r.TTL),
			redis.WithDispatcher(d),
			redis.WithLogger(logger),
		)
		if err := store.Start(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", r.Addr, err)
		}
		logger.Info("Using redis store", "addr", r.Addr, "prefix", r.Prefix)
		return store, store.Close, nil
	case config.BackendMemory, "":
		return memory.NewStore(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// Hooks returns the lifecycle hooks of a host: debug logging plus metrics
// when m is set.
func Hooks(logger *slog.Logger, m *observability.Metrics) domain.LifecycleHooks {
	hooks := observability.LogHooks(logger)
	if m != nil {
		hooks = observability.Combine(hooks, m.Hooks())
	}
	return hooks
}

// isShutdown reports whether err only signals a requested stop.
func isShutdown(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}
