package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/adapters/mcp"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
)

// MCPOptions configure RunMCP.
type MCPOptions struct {
	Options
	Transport string // overrides mcp.transport when set
	Port      int    // overrides mcp.port when non-zero
}

// RunMCP exposes the lesson as an MCP server until ctx is done or stdin
// closes.
func RunMCP(ctx context.Context, opts MCPOptions) error {
	cfg, err := LoadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	transport, port := cfg.MCP.Transport, cfg.MCP.Port
	if opts.Transport != "" {
		transport = opts.Transport
	}
	if opts.Port != 0 {
		port = opts.Port
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	l := loop.New(64)
	go func() { _ = l.Run(ctx) }()

	store, closeStore, err := NewStore(ctx, cfg.Store, l, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	page, err := lesson.Open(ctx, opts.Dir, store,
		lesson.WithClock(loop.Clock(clock.NewSystem(), l)),
		lesson.WithLogger(logger),
		lesson.WithLifecycleHooks(Hooks(logger, nil)),
		lesson.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to load lesson: %w", err)
	}

	srv := mcp.NewServer(l, mcp.WithLogger(logger))
	if err := srv.SetPage(ctx, page); err != nil {
		return err
	}

	switch transport {
	case "stdio":
		logger.Info("Starting Lectern MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("Starting Lectern MCP Server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", transport)
}
