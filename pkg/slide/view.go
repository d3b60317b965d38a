package slide

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
)

// TransitionClass names the presentation class for the last navigation, or
// "" when transitions are disabled.
func (c *Controller) TransitionClass() string {
	switch c.cfg.Transition {
	case domain.TransitionFade:
		return "fade-in"
	case domain.TransitionSlide:
		if c.direction == domain.DirectionPrev {
			return "slide-in-left"
		}
		return "slide-in-right"
	default:
		return ""
	}
}

// TransitionKey identifies one rendering of the active slide. It changes on
// every navigation, including re-confirmation of the same index.
func (c *Controller) TransitionKey() string {
	return fmt.Sprintf("%d-%d", c.position, c.epoch)
}

// Snapshot returns the introspectable state.
func (c *Controller) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Layout:    domain.LayoutSlides,
		Total:     len(c.items),
		Current:   c.position,
		Direction: c.direction,
		Epoch:     c.epoch,
	}
}

// View returns the render model. Only the active item is carried.
func (c *Controller) View() domain.SlideView {
	v := domain.SlideView{
		Snapshot:        c.Snapshot(),
		Height:          c.cfg.Height,
		Transition:      c.cfg.Transition,
		TransitionClass: c.TransitionClass(),
		TransitionKey:   c.TransitionKey(),
	}
	if len(c.items) == 0 {
		return v
	}

	item := c.items[c.position]
	v.Item = &item
	if c.cfg.ShowArrows {
		v.Arrows = &domain.ArrowsView{
			Position:     c.cfg.ArrowPosition,
			PrevDisabled: c.prev.Disabled(),
			NextDisabled: c.next.Disabled(),
		}
	}
	if c.cfg.ShowDots {
		v.Dots = c.dots.View()
	}
	if c.cfg.ShowCounter {
		v.Counter = c.counter.Text()
	}
	return v
}
