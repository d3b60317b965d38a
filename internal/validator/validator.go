// Package validator checks a lesson before it is played or served.
package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
)

// Severity grades an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about a lesson.
type Issue struct {
	Severity Severity
	ItemID   string // empty for manifest issues
	Err      error
}

func (i Issue) String() string {
	if i.ItemID == "" {
		return fmt.Sprintf("%s: %v", i.Severity, i.Err)
	}
	return fmt.Sprintf("%s: %s: %v", i.Severity, i.ItemID, i.Err)
}

var (
	errGateOnSlide    = errors.New("completion_var and auto_advance are ignored by slides")
	errLabelOnSlide   = errors.New("reveal_label is ignored by slides")
	errGateIsProgress = errors.New("completion_var is the lesson's own progress variable")
	errAutoOnLast     = errors.New("auto_advance on the last item has no effect")
	errEmptyContent   = errors.New("item has no content")
	errMissingTitle   = errors.New("lesson has no title")
)

// Check inspects the manifest and items and returns every finding, errors
// first.
func Check(m lesson.Manifest, docs []loam.Document) []Issue {
	var errs, warns []Issue
	fail := func(id string, err error) { errs = append(errs, Issue{SeverityError, id, err}) }
	warn := func(id string, err error) { warns = append(warns, Issue{SeverityWarning, id, err}) }

	if err := m.Validate(); err != nil {
		fail("", err)
	}
	if strings.TrimSpace(m.Title) == "" {
		warn("", errMissingTitle)
	}
	if len(docs) == 0 {
		fail("", domain.ErrEmptyLesson)
	}

	for i, d := range docs {
		if strings.TrimSpace(d.Content) == "" {
			warn(d.ID, errEmptyContent)
		}
		meta := d.Meta
		if m.Layout == domain.LayoutSlides {
			if meta.CompletionVar != "" || meta.AutoAdvance {
				warn(d.ID, errGateOnSlide)
			}
			if meta.RevealLabel != "" {
				warn(d.ID, errLabelOnSlide)
			}
			continue
		}

		if meta.AutoAdvance && meta.CompletionVar == "" {
			fail(d.ID, domain.ErrAutoAdvanceWithoutGate)
		}
		if meta.CompletionVar != "" && meta.CompletionVar == m.VarName {
			warn(d.ID, errGateIsProgress)
		}
		if meta.AutoAdvance && i == len(docs)-1 {
			warn(d.ID, errAutoOnLast)
		}
	}
	return append(errs, warns...)
}

// Validate returns an error summarizing the error-level issues, or nil.
func Validate(m lesson.Manifest, docs []loam.Document) error {
	var lines []string
	for _, issue := range Check(m, docs) {
		if issue.Severity == SeverityError {
			lines = append(lines, issue.String())
		}
	}
	if len(lines) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(lines), strings.Join(lines, "\n- "))
	}
	return nil
}

// CheckDir loads the lesson in dir and checks it. Load failures are
// returned as the error.
func CheckDir(ctx context.Context, dir string) ([]Issue, error) {
	m, docs, err := lesson.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	return Check(m, docs), nil
}
