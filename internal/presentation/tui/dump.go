package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lectern/pkg/lesson"
)

// Dump writes every item of page in order, for output that is not a
// terminal. Gates are not evaluated.
func Dump(w io.Writer, page *lesson.Page, render Renderer) error {
	if title := page.Title(); title != "" {
		if _, err := fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title)))); err != nil {
			return err
		}
	}
	items := page.Items()
	for i, item := range items {
		out, err := render(item.Body())
		if err != nil {
			return fmt.Errorf("render item %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintf(w, "[%d/%d]\n%s\n", i+1, len(items), strings.TrimRight(out, "\n")); err != nil {
			return err
		}
	}
	return nil
}
