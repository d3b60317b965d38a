// Package slide implements the bounded carousel controller.
//
// A deck shows exactly one item. Any item is reachable from any other; every
// navigation bumps an animation epoch so transitions replay even when the
// target equals the current position.
package slide

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/view"
)

// Controller drives a slide deck.
// It is not safe for concurrent use. Key sources must deliver on the
// goroutine that owns the controller.
type Controller struct {
	store ports.VariableStore
	items []domain.SlideItem
	cfg   Config

	keys     ports.KeySource
	clock    ports.Clock
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	ctx      context.Context
	onChange func()

	position  int
	direction domain.Direction
	epoch     uint64

	mounted  bool
	unlisten ports.UnsubscribeFunc

	prev    *view.NavButton
	next    *view.NavButton
	dots    *view.Dots
	counter *view.Counter
}

// New validates cfg and creates an unmounted deck at position 0.
func New(store ports.VariableStore, items []domain.SlideItem, cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slide config: %w", err)
	}
	cfg.applyDefaults()

	c := &Controller{
		store:     store,
		items:     append([]domain.SlideItem(nil), items...),
		cfg:       cfg,
		clock:     clock.NewSystem(),
		logger:    logging.NewNop(),
		ctx:       context.Background(),
		direction: domain.DirectionNext,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.prev = view.NewNavButton(domain.DirectionPrev, c.GoPrev)
	c.next = view.NewNavButton(domain.DirectionNext, c.GoNext)
	c.dots = view.NewDots(len(c.items), c.GoTo)
	c.counter = view.NewCounter()
	c.sync()
	return c, nil
}

// Total returns the number of slides.
func (c *Controller) Total() int {
	return len(c.items)
}

// Position returns the active index.
func (c *Controller) Position() int {
	return c.position
}

// Direction returns the direction of the last navigation.
func (c *Controller) Direction() domain.Direction {
	return c.direction
}

// Epoch returns the animation epoch.
func (c *Controller) Epoch() uint64 {
	return c.epoch
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Mounted reports whether the controller is mounted.
func (c *Controller) Mounted() bool {
	return c.mounted
}

// Mount installs the keyboard listener and publishes the current index.
// It is idempotent.
func (c *Controller) Mount() {
	if c.mounted {
		return
	}
	c.mounted = true
	if c.keys != nil {
		c.unlisten = c.keys.Listen(func(k domain.Key) {
			c.HandleKey(k)
		})
	}
	if len(c.items) > 0 {
		c.publish()
	}

	snap := c.Snapshot()
	if c.hooks.OnMount != nil {
		c.hooks.OnMount(c.ctx, &snap)
	}
	c.logger.Debug("slide deck mounted", "total", len(c.items), "position", c.position)
}

// Unmount removes the keyboard listener. The last published index stays in
// the store.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.mounted = false
	if c.unlisten != nil {
		c.unlisten()
		c.unlisten = nil
	}
	c.logger.Debug("slide deck unmounted", "position", c.position)
}

// GoTo activates index. Out of range indexes are ignored; there is no
// wraparound.
func (c *Controller) GoTo(index int) {
	c.goTo(index, domain.ActionGoTo)
}

// GoNext activates the following slide, if any.
func (c *Controller) GoNext() {
	c.goTo(c.position+1, domain.ActionNext)
}

// GoPrev activates the preceding slide, if any.
func (c *Controller) GoPrev() {
	c.goTo(c.position-1, domain.ActionPrev)
}

// HandleKey maps arrow keys to navigation and reports whether k was
// recognised. It always acts on the current position.
func (c *Controller) HandleKey(k domain.Key) bool {
	switch k {
	case domain.KeyArrowRight, domain.KeyArrowDown:
		c.goTo(c.position+1, domain.ActionKey)
	case domain.KeyArrowLeft, domain.KeyArrowUp:
		c.goTo(c.position-1, domain.ActionKey)
	default:
		return false
	}
	return true
}

// ClickPrev clicks the previous arrow.
func (c *Controller) ClickPrev() bool {
	return c.cfg.ShowArrows && c.prev.Click()
}

// ClickNext clicks the next arrow.
func (c *Controller) ClickNext() bool {
	return c.cfg.ShowArrows && c.next.Click()
}

// ClickDot clicks the indicator for index.
func (c *Controller) ClickDot(index int) bool {
	return c.cfg.ShowDots && c.dots.Click(index)
}

func (c *Controller) goTo(index int, action domain.Action) {
	if !domain.InRange(index, len(c.items)) {
		c.logger.Debug("slide navigation ignored", "index", index, "total", len(c.items))
		return
	}

	from := c.position
	if index >= from {
		c.direction = domain.DirectionNext
	} else {
		c.direction = domain.DirectionPrev
	}
	c.position = index
	c.epoch++
	c.sync()

	c.publish()
	if c.cfg.OnSlideChange != nil {
		c.cfg.OnSlideChange(index)
	}

	if c.hooks.OnNavigate != nil {
		c.hooks.OnNavigate(c.ctx, &domain.NavigationEvent{
			EventBase: domain.EventBase{
				Timestamp: c.clock.Now(),
				Type:      domain.EventNavigate,
				Layout:    domain.LayoutSlides,
			},
			Action:    action,
			From:      from,
			To:        index,
			Direction: c.direction,
			Epoch:     c.epoch,
		})
	}
	c.logger.Debug("slide changed", "from", from, "to", index, "direction", c.direction, "epoch", c.epoch)
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) sync() {
	total := len(c.items)
	c.prev.Sync(c.position, total)
	c.next.Sync(c.position, total)
	c.dots.Sync(c.position)
	c.counter.Sync(c.position, total)
}

func (c *Controller) publish() {
	if c.cfg.VarName == "" {
		return
	}
	c.store.Write(c.cfg.VarName, c.position)
}
