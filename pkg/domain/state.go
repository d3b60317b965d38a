package domain

// ItemState is the lifecycle position of a step item relative to the frontier.
type ItemState string

const (
	// ItemHidden items lie beyond the frontier and are never instantiated.
	ItemHidden ItemState = "hidden"
	// ItemActive is the item at the frontier.
	ItemActive ItemState = "active"
	// ItemCompleted items lie before the frontier and stay visible for context.
	ItemCompleted ItemState = "completed"
)

// Snapshot is the introspectable state of a controller.
// It lets tests and tooling observe state without depending on the store.
type Snapshot struct {
	Layout  Layout `json:"layout"`
	Total   int    `json:"total"`
	Current int    `json:"current"`

	// Direction and Epoch are only set for slides.
	Direction Direction `json:"direction,omitempty"`
	Epoch     uint64    `json:"epoch,omitempty"`
}

// ContinueView describes the Continue control of the active step.
type ContinueView struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// StepItemView is a single instantiated step.
type StepItemView struct {
	Index     int           `json:"index"`
	Content   string        `json:"content"`
	ClassName string        `json:"class_name,omitempty"`
	State     ItemState     `json:"state"`
	Continue  *ContinueView `json:"continue,omitempty"`
	Back      bool          `json:"back,omitempty"`

	// Auto is set when the item advances on its own once its gate is ready.
	Auto bool `json:"auto,omitempty"`
}

// Progress is the 1-based "current of total" indicator.
type Progress struct {
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Text    string `json:"text"`
}

// StepView is the render model of a step sequence.
// Items holds only indexes 0..frontier.
type StepView struct {
	Snapshot
	Items    []StepItemView `json:"items"`
	Progress *Progress      `json:"progress,omitempty"`
}

// ArrowsView describes the previous/next buttons of a slide deck.
type ArrowsView struct {
	Position     ArrowPosition `json:"position"`
	PrevDisabled bool          `json:"prev_disabled"`
	NextDisabled bool          `json:"next_disabled"`
}

// DotView is one direct-jump indicator.
type DotView struct {
	Index  int    `json:"index"`
	Active bool   `json:"active"`
	Label  string `json:"label"`
}

// SlideView is the render model of a slide deck.
// Only the active item is carried.
type SlideView struct {
	Snapshot
	Item            *SlideItem  `json:"item,omitempty"`
	Height          Height      `json:"height"`
	Transition      Transition  `json:"transition"`
	TransitionClass string      `json:"transition_class,omitempty"`
	TransitionKey   string      `json:"transition_key"`
	Arrows          *ArrowsView `json:"arrows,omitempty"`
	Dots            []DotView   `json:"dots,omitempty"`
	Counter         string      `json:"counter,omitempty"`
}
