// Package testutils holds fixtures shared by tests across packages.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteLesson creates a lesson directory in a temp dir from a map of
// slash-separated relative paths to file contents, and returns its absolute
// path. It fails the test immediately on error.
func WriteLesson(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// StepLesson is a three-step lesson whose second step is gated and
// auto-advances.
func StepLesson() map[string]string {
	return map[string]string{
		"lesson.yaml": `title: Fractions
layout: steps
var_name: fractions_progress
steps:
  reveal_label: Next
  allow_back: true
`,
		"items/01-intro.md": `---
class_name: intro
---
# Fractions

A fraction has a numerator and a denominator.
`,
		"items/02-quiz.md": `---
reveal_label: Check
completion_var: quiz_done
auto_advance: true
---
What is 1/2 + 1/4?
`,
		"items/03-answer.md": `The answer is 3/4.
`,
	}
}

// SlideLesson is a four-slide deck.
func SlideLesson() map[string]string {
	return map[string]string{
		"lesson.yaml": `title: Planets
layout: slides
var_name: planet
slides:
  height: lg
  transition: slide
  show_counter: true
`,
		"items/01-mercury.md": "Mercury\n",
		"items/02-venus.md":   "Venus\n",
		"items/03-earth.md":   "Earth\n",
		"items/04-mars.md":    "Mars\n",
	}
}
