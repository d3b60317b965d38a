package step

import "github.com/aretw0/lectern/pkg/domain"

// ItemState returns the lifecycle state of item index.
func (c *Controller) ItemState(index int) domain.ItemState {
	switch {
	case index > c.frontier || index < 0:
		return domain.ItemHidden
	case index == c.frontier:
		return domain.ItemActive
	default:
		return domain.ItemCompleted
	}
}

// Progress returns the 1-based position. ok is false when progress is
// hidden or the sequence has a single item.
func (c *Controller) Progress() (current, total int, ok bool) {
	if !c.cfg.ShowProgress || len(c.items) <= 1 {
		return 0, 0, false
	}
	return c.frontier + 1, len(c.items), true
}

// Snapshot returns the introspectable state.
func (c *Controller) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Layout:  domain.LayoutSteps,
		Total:   len(c.items),
		Current: c.frontier,
	}
}

// View returns the render model. Only items up to the frontier are present.
func (c *Controller) View() domain.StepView {
	v := domain.StepView{Snapshot: c.Snapshot()}
	if len(c.items) == 0 {
		return v
	}

	v.Items = make([]domain.StepItemView, 0, c.frontier+1)
	for i := 0; i <= c.frontier; i++ {
		item := c.items[i]
		iv := domain.StepItemView{
			Index:     i,
			Content:   item.Content,
			ClassName: item.ClassName,
			State:     c.ItemState(i),
		}
		if i == c.frontier {
			c.decorate(&iv)
		}
		v.Items = append(v.Items, iv)
	}
	if _, _, ok := c.Progress(); ok {
		v.Progress = c.progress.View()
	}
	return v
}

func (c *Controller) decorate(iv *domain.StepItemView) {
	item := c.items[iv.Index]
	iv.Back = c.hasBack()
	iv.Auto = item.AutoAdvance && !c.isLast(iv.Index)
	if !c.hasContinue(iv.Index) {
		return
	}
	if c.active != nil && c.active.cont != nil {
		iv.Continue = c.active.cont.View()
		return
	}
	label := item.RevealLabel
	if label == "" {
		label = c.cfg.RevealLabel
	}
	iv.Continue = &domain.ContinueView{Label: label, Enabled: c.gateReady(iv.Index)}
}
