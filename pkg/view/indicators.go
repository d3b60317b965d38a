package view

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/domain"
)

// Dots renders one direct-jump indicator per item.
type Dots struct {
	leaf
	total    int
	active   int
	onSelect func(index int)
}

// NewDots creates total indicators. onSelect receives the clicked index.
func NewDots(total int, onSelect func(int), opts ...Option) *Dots {
	return &Dots{
		leaf:     newLeaf(opts),
		total:    total,
		onSelect: onSelect,
	}
}

// Sync marks current as the active indicator.
func (d *Dots) Sync(current int) {
	d.evals++
	if current != d.active {
		d.active = current
		d.changed()
	}
}

// Active returns the highlighted index.
func (d *Dots) Active() int {
	return d.active
}

// Click selects index. Clicking the active dot is forwarded too: it
// re-confirms the position and replays the transition.
func (d *Dots) Click(index int) bool {
	if !domain.InRange(index, d.total) {
		return false
	}
	d.onSelect(index)
	return true
}

// View returns the render model.
func (d *Dots) View() []domain.DotView {
	dots := make([]domain.DotView, d.total)
	for i := range dots {
		dots[i] = domain.DotView{
			Index:  i,
			Active: i == d.active,
			Label:  fmt.Sprintf("Go to slide %d", i+1),
		}
	}
	return dots
}

// ProgressText is the 1-based "current of total" indicator of a step
// sequence.
type ProgressText struct {
	leaf
	current int
	total   int
}

// NewProgressText creates the indicator.
func NewProgressText(opts ...Option) *ProgressText {
	return &ProgressText{leaf: newLeaf(opts)}
}

// Sync updates the indicator from a 0-based index.
func (p *ProgressText) Sync(current, total int) {
	p.evals++
	if current+1 != p.current || total != p.total {
		p.current, p.total = current+1, total
		p.changed()
	}
}

// Text returns e.g. "2 of 5".
func (p *ProgressText) Text() string {
	return fmt.Sprintf("%d of %d", p.current, p.total)
}

// View returns the render model.
func (p *ProgressText) View() *domain.Progress {
	return &domain.Progress{Current: p.current, Total: p.total, Text: p.Text()}
}

// Counter is the "current / total" indicator of a slide deck.
type Counter struct {
	leaf
	current int
	total   int
}

// NewCounter creates the indicator.
func NewCounter(opts ...Option) *Counter {
	return &Counter{leaf: newLeaf(opts)}
}

// Sync updates the counter from a 0-based index.
func (c *Counter) Sync(current, total int) {
	c.evals++
	if current+1 != c.current || total != c.total {
		c.current, c.total = current+1, total
		c.changed()
	}
}

// Text returns e.g. "2 / 4".
func (c *Counter) Text() string {
	return fmt.Sprintf("%d / %d", c.current, c.total)
}
