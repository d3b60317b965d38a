// Package lesson assembles a page from a lesson directory or from explicit
// items.
//
// A page binds one controller, chosen by the manifest's layout, to a
// variable store and a keyboard bus. Hosts (terminal player, HTTP server,
// MCP server) drive the page through the Controller interface.
package lesson

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/adapters/keys"
	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/slide"
	"github.com/aretw0/lectern/pkg/step"
)

// Page is an assembled lesson.
type Page struct {
	Manifest  Manifest
	Documents []loam.Document

	Store ports.VariableStore
	Keys  *keys.Bus

	Controller Controller

	// Exactly one of Step and Slide is set, matching Manifest.Layout.
	Step  *step.Controller
	Slide *slide.Controller
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	clock    ports.Clock
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	ctx      context.Context
	onChange func()
	keys     *keys.Bus
}

// WithClock sets the clock used for timers and event timestamps.
func WithClock(c ports.Clock) Option {
	return func(o *buildOptions) {
		o.clock = c
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks on the controller.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *buildOptions) {
		o.hooks = hooks
	}
}

// WithContext sets the context passed to lifecycle hooks.
func WithContext(ctx context.Context) Option {
	return func(o *buildOptions) {
		o.ctx = ctx
	}
}

// WithOnChange registers a callback run after every visible change.
func WithOnChange(fn func()) Option {
	return func(o *buildOptions) {
		o.onChange = fn
	}
}

// WithKeys reuses an existing keyboard bus, e.g. across reloads.
func WithKeys(bus *keys.Bus) Option {
	return func(o *buildOptions) {
		o.keys = bus
	}
}

// Load reads the manifest and the item documents of the lesson in dir.
func Load(ctx context.Context, dir string) (Manifest, []loam.Document, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return Manifest{}, nil, err
	}
	loader, err := loam.Open(dir)
	if err != nil {
		return Manifest{}, nil, err
	}
	docs, err := loader.Items(ctx)
	if err != nil {
		return Manifest{}, nil, fmt.Errorf("failed to load items of %s: %w", dir, err)
	}
	return m, docs, nil
}

// Build validates m and creates an unmounted page over docs.
func Build(m Manifest, docs []loam.Document, store ports.VariableStore, opts ...Option) (*Page, error) {
	o := buildOptions{
		clock:  clock.NewSystem(),
		logger: logging.NewNop(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.keys == nil {
		o.keys = keys.NewBus()
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	page := &Page{
		Manifest:  m,
		Documents: docs,
		Store:     store,
		Keys:      o.keys,
	}
	logger := o.logger.With("layout", m.Layout)
	if m.Title != "" {
		logger = logger.With("lesson", m.Title)
	}

	switch m.Layout {
	case domain.LayoutSteps:
		items := make([]domain.StepItem, len(docs))
		for i, d := range docs {
			items[i] = d.StepItem()
		}
		c, err := step.New(store, items, m.StepConfig(),
			step.WithClock(o.clock),
			step.WithLogger(logger),
			step.WithLifecycleHooks(o.hooks),
			step.WithContext(o.ctx),
			step.WithOnChange(o.onChange),
		)
		if err != nil {
			return nil, err
		}
		page.Step = c
		page.Controller = stepController{c}
	case domain.LayoutSlides:
		items := make([]domain.SlideItem, len(docs))
		for i, d := range docs {
			items[i] = d.SlideItem()
		}
		c, err := slide.New(store, items, m.SlideConfig(),
			slide.WithKeySource(o.keys),
			slide.WithClock(o.clock),
			slide.WithLogger(logger),
			slide.WithLifecycleHooks(o.hooks),
			slide.WithContext(o.ctx),
			slide.WithOnChange(o.onChange),
		)
		if err != nil {
			return nil, err
		}
		page.Slide = c
		page.Controller = slideController{c}
	}
	return page, nil
}

// Open loads the lesson in dir and builds its page.
func Open(ctx context.Context, dir string, store ports.VariableStore, opts ...Option) (*Page, error) {
	m, docs, err := Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return Build(m, docs, store, opts...)
}

// Layout returns the page layout.
func (p *Page) Layout() domain.Layout {
	return p.Manifest.Layout
}

// Title returns the lesson title.
func (p *Page) Title() string {
	return p.Manifest.Title
}

// Items returns the sequence as typed items.
func (p *Page) Items() []domain.Item {
	items := make([]domain.Item, len(p.Documents))
	for i, d := range p.Documents {
		if p.Manifest.Layout == domain.LayoutSlides {
			items[i] = d.SlideItem()
		} else {
			items[i] = d.StepItem()
		}
	}
	return items
}

// DispatchKey delivers k on the page's keyboard bus.
func (p *Page) DispatchKey(k domain.Key) {
	p.Keys.Dispatch(k)
}
