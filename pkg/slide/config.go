package slide

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
)

// Config is the caller-facing configuration of a slide deck.
type Config struct {
	// VarName, when set, receives the active index on every navigation.
	VarName string

	Height        domain.Height
	Transition    domain.Transition
	ShowArrows    bool
	ArrowPosition domain.ArrowPosition
	ShowDots      bool
	ShowCounter   bool

	// OnSlideChange is called with the new position after each navigation.
	OnSlideChange func(index int)
}

// DefaultConfig returns a medium-height fading deck with inside arrows and
// dots.
func DefaultConfig() Config {
	return Config{
		Height:        domain.HeightMedium,
		Transition:    domain.TransitionFade,
		ShowArrows:    true,
		ArrowPosition: domain.ArrowsInside,
		ShowDots:      true,
	}
}

// Validate rejects unknown enum values. Empty values are accepted and take
// their defaults.
func (c Config) Validate() error {
	var errs []error
	if c.Height != "" {
		errs = append(errs, domain.ValidateHeight(c.Height))
	}
	if c.Transition != "" {
		errs = append(errs, domain.ValidateTransition(c.Transition))
	}
	if c.ArrowPosition != "" {
		errs = append(errs, domain.ValidateArrowPosition(c.ArrowPosition))
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Height == "" {
		c.Height = d.Height
	}
	if c.Transition == "" {
		c.Transition = d.Transition
	}
	if c.ArrowPosition == "" {
		c.ArrowPosition = d.ArrowPosition
	}
}

// Option configures a Controller.
type Option func(*Controller)

// WithKeySource sets where the controller listens for keyboard navigation
// while mounted.
func WithKeySource(src ports.KeySource) Option {
	return func(c *Controller) {
		c.keys = src
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithContext sets the context passed to lifecycle hooks.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		c.ctx = ctx
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clk ports.Clock) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

// WithOnChange registers a callback run after every navigation.
func WithOnChange(fn func()) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}
