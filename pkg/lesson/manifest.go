package lesson

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/slide"
	"github.com/aretw0/lectern/pkg/step"
	"gopkg.in/yaml.v3"
)

// ManifestNames lists the accepted manifest file names in lookup order.
// YAML is a superset of JSON, so lesson.json is parsed by the same decoder.
var ManifestNames = []string{"lesson.yaml", "lesson.yml", "lesson.json"}

// Manifest describes a lesson directory.
type Manifest struct {
	Title   string        `yaml:"title" json:"title"`
	Layout  domain.Layout `yaml:"layout" json:"layout"`
	VarName string        `yaml:"var_name,omitempty" json:"var_name,omitempty"`

	Steps  StepsManifest  `yaml:"steps,omitempty" json:"steps,omitempty"`
	Slides SlidesManifest `yaml:"slides,omitempty" json:"slides,omitempty"`
}

// StepsManifest configures a step sequence. Pointer fields distinguish an
// omitted key from an explicit false.
type StepsManifest struct {
	RevealLabel  string `yaml:"reveal_label,omitempty" json:"reveal_label,omitempty"`
	ShowProgress *bool  `yaml:"show_progress,omitempty" json:"show_progress,omitempty"`
	AllowBack    bool   `yaml:"allow_back,omitempty" json:"allow_back,omitempty"`
}

// SlidesManifest configures a slide deck.
type SlidesManifest struct {
	Height        domain.Height        `yaml:"height,omitempty" json:"height,omitempty"`
	Transition    domain.Transition    `yaml:"transition,omitempty" json:"transition,omitempty"`
	ShowArrows    *bool                `yaml:"show_arrows,omitempty" json:"show_arrows,omitempty"`
	ArrowPosition domain.ArrowPosition `yaml:"arrow_position,omitempty" json:"arrow_position,omitempty"`
	ShowDots      *bool                `yaml:"show_dots,omitempty" json:"show_dots,omitempty"`
	ShowCounter   bool                 `yaml:"show_counter,omitempty" json:"show_counter,omitempty"`
}

// ParseManifest decodes a manifest and fills in the default layout.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Layout == "" {
		m.Layout = domain.LayoutSteps
	}
	return m, nil
}

// ReadManifest finds and parses the manifest of the lesson in dir.
func ReadManifest(dir string) (Manifest, error) {
	for _, name := range ManifestNames {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return ParseManifest(data)
	}
	return Manifest{}, fmt.Errorf("%w: no manifest in %s", domain.ErrLessonNotFound, dir)
}

// Validate checks the layout and the slide enums.
func (m Manifest) Validate() error {
	if !m.Layout.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidLayout, m.Layout)
	}
	if m.Layout == domain.LayoutSlides {
		return m.SlideConfig().Validate()
	}
	return nil
}

// StepConfig returns the controller configuration for a step sequence.
func (m Manifest) StepConfig() step.Config {
	cfg := step.DefaultConfig()
	cfg.VarName = m.VarName
	cfg.AllowBack = m.Steps.AllowBack
	if m.Steps.RevealLabel != "" {
		cfg.RevealLabel = m.Steps.RevealLabel
	}
	if m.Steps.ShowProgress != nil {
		cfg.ShowProgress = *m.Steps.ShowProgress
	}
	return cfg
}

// SlideConfig returns the controller configuration for a slide deck.
func (m Manifest) SlideConfig() slide.Config {
	cfg := slide.DefaultConfig()
	cfg.VarName = m.VarName
	cfg.ShowCounter = m.Slides.ShowCounter
	if m.Slides.Height != "" {
		cfg.Height = m.Slides.Height
	}
	if m.Slides.Transition != "" {
		cfg.Transition = m.Slides.Transition
	}
	if m.Slides.ArrowPosition != "" {
		cfg.ArrowPosition = m.Slides.ArrowPosition
	}
	if m.Slides.ShowArrows != nil {
		cfg.ShowArrows = *m.Slides.ShowArrows
	}
	if m.Slides.ShowDots != nil {
		cfg.ShowDots = *m.Slides.ShowDots
	}
	return cfg
}
