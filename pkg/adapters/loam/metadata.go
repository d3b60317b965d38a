package loam

import (
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
)

// ItemMetadata is the frontmatter of an item document.
// It uses "mapstructure" tags to match the YAML keys written by authors.
type ItemMetadata struct {
	ClassName   string `json:"class_name" mapstructure:"class_name"`
	RevealLabel string `json:"reveal_label" mapstructure:"reveal_label"`

	// CompletionVar names the gate variable of a step.
	CompletionVar string `json:"completion_var" mapstructure:"completion_var"`
	AutoAdvance   bool   `json:"auto_advance" mapstructure:"auto_advance"`
}

// Document is one item read from a lesson directory.
type Document struct {
	// ID is the slash-separated path without extension, e.g. "items/01-intro".
	ID      string
	Meta    ItemMetadata
	Content string
}

// StepItem converts the document for a step sequence.
func (d Document) StepItem() domain.StepItem {
	return domain.StepItem{
		Content:           strings.TrimSpace(d.Content),
		ClassName:         d.Meta.ClassName,
		RevealLabel:       d.Meta.RevealLabel,
		CompletionVarName: d.Meta.CompletionVar,
		AutoAdvance:       d.Meta.AutoAdvance,
	}
}

// SlideItem converts the document for a slide deck. Step-only keys are
// ignored.
func (d Document) SlideItem() domain.SlideItem {
	return domain.SlideItem{
		Content:   strings.TrimSpace(d.Content),
		ClassName: d.Meta.ClassName,
	}
}
