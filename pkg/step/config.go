package step

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// AutoAdvanceDelay is the pause between a gate becoming ready and the
// automatic reveal of the next step.
const AutoAdvanceDelay = 700 * time.Millisecond

// DefaultRevealLabel is the Continue label used when none is configured.
const DefaultRevealLabel = "Continue"

// Config is the caller-facing configuration of a step sequence.
type Config struct {
	// VarName, when set, receives the frontier index on every reveal.
	VarName string

	// RevealLabel is the default Continue label. Items may override it.
	RevealLabel string

	ShowProgress bool
	AllowBack    bool

	// OnStepReveal is called with the new frontier after each reveal.
	OnStepReveal func(index int)
}

// DefaultConfig returns the defaults: label "Continue", progress shown,
// back navigation disabled.
func DefaultConfig() Config {
	return Config{
		RevealLabel:  DefaultRevealLabel,
		ShowProgress: true,
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock driving auto-advance timers.
func WithClock(c ports.Clock) Option {
	return func(s *Controller) {
		s.clock = c
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Controller) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Controller) {
		s.hooks = hooks
	}
}

// WithContext sets the context passed to lifecycle hooks.
func WithContext(ctx context.Context) Option {
	return func(s *Controller) {
		s.ctx = ctx
	}
}

// WithAutoAdvanceDelay overrides AutoAdvanceDelay.
func WithAutoAdvanceDelay(d time.Duration) Option {
	return func(s *Controller) {
		s.delay = d
	}
}

// WithOnChange registers a callback run after any change to the view:
// navigation or a gate flipping readiness.
func WithOnChange(fn func()) Option {
	return func(s *Controller) {
		s.onChange = fn
	}
}
