package view

import (
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/gate"
	"github.com/aretw0/lectern/pkg/ports"
)

// ContinueButton advances a step sequence. When bound to a gate variable it
// stays disabled until the variable is ready.
type ContinueButton struct {
	leaf
	label   string
	action  func()
	watcher *gate.Watcher
}

// NewContinueButton creates a button labelled label that runs action on
// click. An empty key means the button is ungated and never subscribes.
func NewContinueButton(store ports.VariableStore, key, label string, action func(), opts ...Option) *ContinueButton {
	b := &ContinueButton{
		leaf:   newLeaf(opts),
		label:  label,
		action: action,
	}
	if key != "" {
		b.watcher = gate.New(store, key, gate.OnChange(func(bool) {
			b.changed()
		}))
	}
	return b
}

// Mount subscribes to the gate variable, if any.
func (b *ContinueButton) Mount() {
	if b.watcher != nil {
		b.watcher.Arm()
	}
}

// Unmount drops the subscription.
func (b *ContinueButton) Unmount() {
	if b.watcher != nil {
		b.watcher.Disarm()
	}
}

// Key returns the gate variable, or "" for an ungated button.
func (b *ContinueButton) Key() string {
	if b.watcher == nil {
		return ""
	}
	return b.watcher.Key()
}

// Label returns the button text.
func (b *ContinueButton) Label() string {
	return b.label
}

// Enabled reports whether a click would advance.
func (b *ContinueButton) Enabled() bool {
	return b.watcher == nil || b.watcher.Ready()
}

// Evaluations counts gate observations.
func (b *ContinueButton) Evaluations() int {
	if b.watcher == nil {
		return 0
	}
	return b.watcher.Evaluations()
}

// Click runs the action when enabled and reports whether it did.
func (b *ContinueButton) Click() bool {
	if !b.Enabled() {
		return false
	}
	b.action()
	return true
}

// View returns the render model.
func (b *ContinueButton) View() *domain.ContinueView {
	return &domain.ContinueView{Label: b.label, Enabled: b.Enabled()}
}

// BackButton returns to the previous step.
type BackButton struct {
	action func()
}

// NewBackButton creates a back button.
func NewBackButton(action func()) *BackButton {
	return &BackButton{action: action}
}

// Click runs the action.
func (b *BackButton) Click() {
	b.action()
}

// NavButton is a previous or next arrow of a slide deck.
type NavButton struct {
	leaf
	direction domain.Direction
	disabled  bool
	action    func()
}

// NewNavButton creates an arrow for direction d.
func NewNavButton(d domain.Direction, action func(), opts ...Option) *NavButton {
	return &NavButton{
		leaf:      newLeaf(opts),
		direction: d,
		action:    action,
	}
}

// Direction returns which way the button navigates.
func (b *NavButton) Direction() domain.Direction {
	return b.direction
}

// Disabled reports whether the button sits at the edge of the deck.
func (b *NavButton) Disabled() bool {
	return b.disabled
}

// Sync recomputes the disabled flag for the given position.
func (b *NavButton) Sync(current, total int) {
	b.evals++
	var disabled bool
	if b.direction == domain.DirectionPrev {
		disabled = current <= 0
	} else {
		disabled = current >= total-1
	}
	if disabled != b.disabled {
		b.disabled = disabled
		b.changed()
	}
}

// Click runs the action unless disabled and reports whether it did.
func (b *NavButton) Click() bool {
	if b.disabled {
		return false
	}
	b.action()
	return true
}
