package domain

// Layout identifies which controller drives a sequence.
type Layout string

const (
	// LayoutSteps reveals items one by one, keeping earlier items visible.
	LayoutSteps Layout = "steps"
	// LayoutSlides shows a single active item at a time (carousel).
	LayoutSlides Layout = "slides"
)

// Valid reports whether l is a known layout.
func (l Layout) Valid() bool {
	return l == LayoutSteps || l == LayoutSlides
}

// Item is a content block of a sequence.
// The set of implementations is closed: StepItem and SlideItem.
type Item interface {
	Layout() Layout
	Body() string
}

// StepItem is a block revealed by the step controller.
type StepItem struct {
	// Content is the markdown body of the block.
	Content string `json:"content" yaml:"content"`

	ClassName string `json:"class_name,omitempty" yaml:"class_name,omitempty"`

	// RevealLabel overrides the controller-wide Continue label for this item.
	RevealLabel string `json:"reveal_label,omitempty" yaml:"reveal_label,omitempty"`

	// CompletionVarName is the gate variable that must be ready before the
	// learner may continue past this item.
	CompletionVarName string `json:"completion_var,omitempty" yaml:"completion_var,omitempty"`

	// AutoAdvance replaces the Continue control with an automatic advance once
	// the gate variable becomes ready. Requires CompletionVarName.
	AutoAdvance bool `json:"auto_advance,omitempty" yaml:"auto_advance,omitempty"`
}

// Layout implements Item.
func (StepItem) Layout() Layout { return LayoutSteps }

// Body implements Item.
func (s StepItem) Body() string { return s.Content }

// Gated reports whether the item declares a gate variable.
func (s StepItem) Gated() bool { return s.CompletionVarName != "" }

// SlideItem is a block shown by the slide controller.
type SlideItem struct {
	Content   string `json:"content" yaml:"content"`
	ClassName string `json:"class_name,omitempty" yaml:"class_name,omitempty"`
}

// Layout implements Item.
func (SlideItem) Layout() Layout { return LayoutSlides }

// Body implements Item.
func (s SlideItem) Body() string { return s.Content }

// InRange reports whether index addresses an item of a sequence of length total.
func InRange(index, total int) bool {
	return index >= 0 && index < total
}
