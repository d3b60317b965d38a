// Package step implements the one-way sequential reveal controller.
//
// Items are revealed one at a time up to a frontier. Items beyond the
// frontier are never instantiated. The active item may be gated on a store
// variable, either enabling a Continue control or advancing automatically
// once the variable is ready.
package step

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/gate"
	"github.com/aretw0/lectern/pkg/ports"
	"github.com/aretw0/lectern/pkg/view"
)

// Controller drives a step sequence.
// It is not safe for concurrent use. Hosts serving several goroutines run it
// on a loop.Loop.
type Controller struct {
	store ports.VariableStore
	items []domain.StepItem
	cfg   Config

	clock    ports.Clock
	delay    time.Duration
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	ctx      context.Context
	onChange func()

	frontier int
	mounted  bool
	active   *activation
	progress *view.ProgressText
}

// activation holds what exists only while an item is the frontier.
type activation struct {
	index   int
	cont    *view.ContinueButton
	back    *view.BackButton
	watcher *gate.Watcher
}

// New validates items and creates an unmounted controller at frontier 0.
func New(store ports.VariableStore, items []domain.StepItem, cfg Config, opts ...Option) (*Controller, error) {
	for i, item := range items {
		if item.AutoAdvance && !item.Gated() {
			return nil, fmt.Errorf("step %d: %w", i, domain.ErrAutoAdvanceWithoutGate)
		}
	}
	if cfg.RevealLabel == "" {
		cfg.RevealLabel = DefaultRevealLabel
	}

	c := &Controller{
		store:  store,
		items:  append([]domain.StepItem(nil), items...),
		cfg:    cfg,
		clock:  clock.NewSystem(),
		delay:  AutoAdvanceDelay,
		logger: logging.NewNop(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.progress = view.NewProgressText()
	c.progress.Sync(0, len(c.items))
	return c, nil
}

// Total returns the number of items.
func (c *Controller) Total() int {
	return len(c.items)
}

// Frontier returns the index of the highest revealed item.
func (c *Controller) Frontier() int {
	return c.frontier
}

// Mounted reports whether the controller is mounted.
func (c *Controller) Mounted() bool {
	return c.mounted
}

// Mount activates the frontier item and publishes the current index.
// It is idempotent.
func (c *Controller) Mount() {
	if c.mounted || len(c.items) == 0 {
		return
	}
	c.mounted = true
	c.activate(c.frontier)
	c.publish()

	snap := c.Snapshot()
	if c.hooks.OnMount != nil {
		c.hooks.OnMount(c.ctx, &snap)
	}
	c.logger.Debug("step sequence mounted", "total", len(c.items), "frontier", c.frontier)
}

// Unmount cancels pending auto-advances and drops all subscriptions.
// The last published index stays in the store.
func (c *Controller) Unmount() {
	if !c.mounted {
		return
	}
	c.deactivate()
	c.mounted = false
	c.logger.Debug("step sequence unmounted", "frontier", c.frontier)
}

// Reveal moves the frontier to index. Out of range indexes are ignored.
// It bypasses gates and the back setting; learner input goes through Jump.
func (c *Controller) Reveal(index int) {
	c.reveal(index, domain.ActionReveal)
}

// Jump moves the frontier to index only where the page's own controls could:
// the next item when Continue is available and its gate is ready, or any
// earlier item when back navigation is allowed. Other targets are ignored.
func (c *Controller) Jump(index int) bool {
	switch {
	case index == c.frontier+1:
		return c.Continue()
	case index >= 0 && index < c.frontier && c.cfg.AllowBack:
		c.reveal(index, domain.ActionGoTo)
		return true
	}
	c.logger.Debug("jump ignored", "index", index, "frontier", c.frontier)
	return false
}

// RevealNext reveals the item after current.
func (c *Controller) RevealNext(current int) {
	c.reveal(current+1, domain.ActionNext)
}

// RevealPrev reveals the item before current, stopping at 0.
// It does nothing unless back navigation is allowed.
func (c *Controller) RevealPrev(current int) {
	if !c.cfg.AllowBack {
		return
	}
	c.reveal(max(0, current-1), domain.ActionPrev)
}

// Continue clicks the Continue control of the frontier item. It reports
// false when the item has no Continue control or its gate is not ready.
func (c *Controller) Continue() bool {
	if !c.hasContinue(c.frontier) {
		return false
	}
	if c.active != nil && c.active.cont != nil {
		return c.active.cont.Click()
	}
	// Unmounted: evaluate the gate directly.
	if !c.gateReady(c.frontier) {
		return false
	}
	c.reveal(c.frontier+1, domain.ActionContinue)
	return true
}

// Back clicks the Back control. It reports false when there is none.
func (c *Controller) Back() bool {
	if !c.hasBack() {
		return false
	}
	if c.active != nil && c.active.back != nil {
		c.active.back.Click()
		return true
	}
	c.reveal(c.frontier-1, domain.ActionBack)
	return true
}

func (c *Controller) reveal(index int, action domain.Action) {
	if !domain.InRange(index, len(c.items)) {
		c.logger.Debug("reveal ignored", "index", index, "total", len(c.items))
		return
	}

	from := c.frontier
	c.frontier = index
	if c.mounted && (c.active == nil || c.active.index != index) {
		c.deactivate()
		c.activate(index)
	}
	c.progress.Sync(index, len(c.items))

	c.publish()
	if c.cfg.OnStepReveal != nil {
		c.cfg.OnStepReveal(index)
	}

	evt := &domain.NavigationEvent{
		EventBase: domain.EventBase{
			Timestamp: c.clock.Now(),
			Type:      domain.EventNavigate,
			Layout:    domain.LayoutSteps,
		},
		Action: action,
		From:   from,
		To:     index,
	}
	if action == domain.ActionAuto {
		evt.Type = domain.EventAutoAdvance
		if c.hooks.OnAutoAdvance != nil {
			c.hooks.OnAutoAdvance(c.ctx, evt)
		}
	}
	if c.hooks.OnNavigate != nil {
		c.hooks.OnNavigate(c.ctx, evt)
	}
	c.logger.Debug("step revealed", "from", from, "to", index, "action", action)
	c.changed()
}

func (c *Controller) activate(index int) {
	a := &activation{index: index}
	item := c.items[index]

	switch {
	case c.isLast(index):
		// Terminal: no successor, no Continue, no watcher.
	case item.AutoAdvance:
		a.watcher = gate.New(c.store, item.CompletionVarName,
			gate.WithClock(c.clock),
			gate.WithDelay(c.delay),
			gate.WithLogger(c.logger),
			gate.OnReady(func() { c.autoAdvance(index) }),
			gate.OnChange(func(ready bool) { c.gateChanged(index, item.CompletionVarName, ready) }),
		)
		a.watcher.Arm()
	default:
		label := item.RevealLabel
		if label == "" {
			label = c.cfg.RevealLabel
		}
		var opts []view.Option
		if item.Gated() {
			opts = append(opts, view.OnChange(func() {
				c.gateChanged(index, item.CompletionVarName, a.cont.Enabled())
			}))
		}
		a.cont = view.NewContinueButton(c.store, item.CompletionVarName, label, func() {
			c.reveal(index+1, domain.ActionContinue)
		}, opts...)
		a.cont.Mount()
	}

	if c.cfg.AllowBack && index > 0 {
		a.back = view.NewBackButton(func() {
			c.reveal(index-1, domain.ActionBack)
		})
	}
	c.active = a
}

func (c *Controller) deactivate() {
	a := c.active
	if a == nil {
		return
	}
	c.active = nil
	if a.watcher != nil {
		a.watcher.Disarm()
	}
	if a.cont != nil {
		a.cont.Unmount()
	}
}

func (c *Controller) autoAdvance(index int) {
	if c.frontier != index {
		return
	}
	c.logger.Info("auto-advancing step", "from", index, "key", c.items[index].CompletionVarName)
	c.reveal(index+1, domain.ActionAuto)
}

func (c *Controller) gateChanged(index int, key string, ready bool) {
	if c.hooks.OnGateChange != nil {
		c.hooks.OnGateChange(c.ctx, &domain.GateEvent{
			EventBase: domain.EventBase{
				Timestamp: c.clock.Now(),
				Type:      domain.EventGateChange,
				Layout:    domain.LayoutSteps,
			},
			Index: index,
			Key:   key,
			Ready: ready,
		})
	}
	c.changed()
}

func (c *Controller) publish() {
	if c.cfg.VarName == "" {
		return
	}
	c.store.Write(c.cfg.VarName, c.frontier)
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) isLast(index int) bool {
	return index == len(c.items)-1
}

func (c *Controller) hasContinue(index int) bool {
	if !domain.InRange(index, len(c.items)) || c.isLast(index) {
		return false
	}
	return !c.items[index].AutoAdvance
}

func (c *Controller) hasBack() bool {
	return c.cfg.AllowBack && c.frontier > 0
}

func (c *Controller) gateReady(index int) bool {
	item := c.items[index]
	if !item.Gated() {
		return true
	}
	return domain.IsReady(c.store.Read(item.CompletionVarName, ""))
}
