package dsl

import (
	"fmt"

	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/ports"
)

// Builder manages the lesson construction.
type Builder struct {
	manifest lesson.Manifest
	items    []*ItemBuilder
}

// New creates a step lesson builder.
func New(title string) *Builder {
	return &Builder{
		manifest: lesson.Manifest{
			Title:  title,
			Layout: domain.LayoutSteps,
		},
	}
}

// Slides switches the lesson to the slide layout.
func (b *Builder) Slides(cfg lesson.SlidesManifest) *Builder {
	b.manifest.Layout = domain.LayoutSlides
	b.manifest.Slides = cfg
	return b
}

// Steps configures the step layout.
func (b *Builder) Steps(cfg lesson.StepsManifest) *Builder {
	b.manifest.Layout = domain.LayoutSteps
	b.manifest.Steps = cfg
	return b
}

// VarName binds the current index to a store variable.
func (b *Builder) VarName(name string) *Builder {
	b.manifest.VarName = name
	return b
}

// Item appends an item with the given markdown content.
func (b *Builder) Item(content string) *ItemBuilder {
	ib := &ItemBuilder{
		doc: loam.Document{
			ID:      fmt.Sprintf("%s/%03d", loam.ItemsDir, len(b.items)+1),
			Content: content,
		},
	}
	b.items = append(b.items, ib)
	return ib
}

// Manifest returns the manifest built so far.
func (b *Builder) Manifest() lesson.Manifest {
	return b.manifest
}

// Documents returns the items as documents, in insertion order.
func (b *Builder) Documents() []loam.Document {
	docs := make([]loam.Document, len(b.items))
	for i, ib := range b.items {
		docs[i] = ib.doc
	}
	return docs
}

// Build compiles the lesson into an unmounted page bound to store.
func (b *Builder) Build(store ports.VariableStore, opts ...lesson.Option) (*lesson.Page, error) {
	page, err := lesson.Build(b.manifest, b.Documents(), store, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build lesson %q: %w", b.manifest.Title, err)
	}
	return page, nil
}

// ItemBuilder provides a fluent API for configuring an item.
type ItemBuilder struct {
	doc loam.Document
}

// Class sets the presentation class.
func (i *ItemBuilder) Class(name string) *ItemBuilder {
	i.doc.Meta.ClassName = name
	return i
}

// Label overrides the Continue label of a step.
func (i *ItemBuilder) Label(label string) *ItemBuilder {
	i.doc.Meta.RevealLabel = label
	return i
}

// Gate makes the step wait for the store variable key to become ready.
func (i *ItemBuilder) Gate(key string) *ItemBuilder {
	i.doc.Meta.CompletionVar = key
	return i
}

// Auto replaces the Continue control with an automatic advance once the
// gate is ready. It requires Gate.
func (i *ItemBuilder) Auto() *ItemBuilder {
	i.doc.Meta.AutoAdvance = true
	return i
}
