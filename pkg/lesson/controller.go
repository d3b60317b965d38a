package lesson

import (
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/slide"
	"github.com/aretw0/lectern/pkg/step"
)

// Controller is the layout-independent surface hosts drive.
type Controller interface {
	Layout() domain.Layout
	Total() int
	Current() int

	// Next and Prev act like the page's own controls: Continue and Back for
	// steps, the arrows' targets for slides.
	Next() bool
	Prev() bool

	// GoTo jumps to index. Slides accept any valid index; steps only accept
	// moves their Continue and Back controls allow.
	GoTo(index int)

	Mount()
	Unmount()

	// HandleKey reports whether the key was bound to navigation.
	HandleKey(k domain.Key) bool
	Snapshot() domain.Snapshot

	// View returns a domain.StepView or a domain.SlideView.
	View() any
}

type stepController struct {
	*step.Controller
}

func (stepController) Layout() domain.Layout { return domain.LayoutSteps }

func (c stepController) Current() int { return c.Frontier() }

func (c stepController) Next() bool { return c.Continue() }

func (c stepController) Prev() bool { return c.Back() }

func (c stepController) GoTo(index int) { c.Jump(index) }

// Step sequences have no keyboard surface.
func (stepController) HandleKey(domain.Key) bool { return false }

func (c stepController) View() any { return c.Controller.View() }

type slideController struct {
	*slide.Controller
}

func (slideController) Layout() domain.Layout { return domain.LayoutSlides }

func (c slideController) Current() int { return c.Position() }

func (c slideController) Next() bool {
	before := c.Epoch()
	c.GoNext()
	return c.Epoch() != before
}

func (c slideController) Prev() bool {
	before := c.Epoch()
	c.GoPrev()
	return c.Epoch() != before
}

func (c slideController) View() any { return c.Controller.View() }
