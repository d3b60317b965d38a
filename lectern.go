package lectern

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/dsl"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
	"github.com/aretw0/lectern/pkg/ports"
)

// ErrClosed is returned by a Player after Close.
var ErrClosed = errors.New("player closed")

// Player hosts a lesson page on its own event loop, so it can be driven
// from any goroutine. Timers and remote store changes are delivered on the
// same loop.
type Player struct {
	page   *lesson.Page
	loop   *loop.Loop
	store  ports.VariableStore
	cancel context.CancelFunc
	stop   sync.Once
}

// Option configures a Player.
type Option func(*options)

type options struct {
	store  ports.VariableStore
	clock  ports.Clock
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WithStore sets the variable store. The default is an in-memory store.
func WithStore(s ports.VariableStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithClock sets the base clock; timers it fires are moved onto the loop.
func WithClock(c ports.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *options) {
		e.hooks = hooks
	}
}

func newOptions(opts []Option) options {
	o := options{
		clock:  clock.NewSystem(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.store == nil {
		o.store = memory.NewStore()
	}
	return o
}

// Open loads the lesson in dir and starts a mounted player.
func Open(ctx context.Context, dir string, opts ...Option) (*Player, error) {
	m, docs, err := lesson.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return start(ctx, m, docs, newOptions(opts))
}

// FromBuilder starts a mounted player for a lesson declared in code.
func FromBuilder(ctx context.Context, b *dsl.Builder, opts ...Option) (*Player, error) {
	return start(ctx, b.Manifest(), b.Documents(), newOptions(opts))
}

func start(ctx context.Context, m lesson.Manifest, docs []loam.Document, o options) (*Player, error) {
	l := loop.New(64)
	page, err := lesson.Build(m, docs, o.store,
		lesson.WithClock(loop.Clock(o.clock, l)),
		lesson.WithLogger(o.logger),
		lesson.WithLifecycleHooks(o.hooks),
	)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go func() { _ = l.Run(runCtx) }()

	p := &Player{page: page, loop: l, store: o.store, cancel: cancel}
	if err := l.Do(ctx, page.Controller.Mount); err != nil {
		cancel()
		return nil, err
	}
	return p, nil
}

// Do runs fn on the loop with the page. The page must not escape fn.
func (p *Player) Do(ctx context.Context, fn func(page *lesson.Page)) error {
	err := p.loop.Do(ctx, func() { fn(p.page) })
	if errors.Is(err, loop.ErrStopped) {
		return ErrClosed
	}
	return err
}

// Snapshot returns the current controller state.
func (p *Player) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	var s domain.Snapshot
	err := p.Do(ctx, func(page *lesson.Page) { s = page.Controller.Snapshot() })
	return s, err
}

// Next advances the page and reports whether it moved.
func (p *Player) Next(ctx context.Context) (bool, error) {
	var moved bool
	err := p.Do(ctx, func(page *lesson.Page) { moved = page.Controller.Next() })
	return moved, err
}

// Prev goes back and reports whether the page moved.
func (p *Player) Prev(ctx context.Context) (bool, error) {
	var moved bool
	err := p.Do(ctx, func(page *lesson.Page) { moved = page.Controller.Prev() })
	return moved, err
}

// GoTo jumps to a slide. On a step page it only makes the moves the
// Continue and Back controls would.
func (p *Player) GoTo(ctx context.Context, index int) error {
	return p.Do(ctx, func(page *lesson.Page) { page.Controller.GoTo(index) })
}

// Write sets a store variable on the loop, where gate watchers observe it.
func (p *Player) Write(ctx context.Context, key string, value any) error {
	return p.Do(ctx, func(*lesson.Page) { p.store.Write(key, value) })
}

// Read returns a store variable or def.
func (p *Player) Read(key string, def any) any {
	return p.store.Read(key, def)
}

// Close unmounts the page and stops the loop. It is safe to call twice.
func (p *Player) Close() error {
	p.stop.Do(func() {
		_ = p.loop.Do(context.Background(), p.page.Controller.Unmount)
		p.cancel()
		<-p.loop.Done()
	})
	return nil
}
