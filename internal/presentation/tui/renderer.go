package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a glamour renderer wrapping at width (0 keeps glamour's
// default). It detects a light or dark background.
func NewRenderer(width int) Renderer {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	return newRenderer(opts...)
}

// NewPlainRenderer renders without colors, for pipes and tests.
func NewPlainRenderer(width int) Renderer {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle("notty")}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	return newRenderer(opts...)
}

func newRenderer(opts ...glamour.TermRendererOption) Renderer {
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return r.Render
}
