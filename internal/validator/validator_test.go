package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lectern/internal/testutils"
	"github.com/aretw0/lectern/internal/validator"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/dsl"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func severities(issues []validator.Issue) map[validator.Severity]int {
	out := map[validator.Severity]int{}
	for _, i := range issues {
		out[i.Severity]++
	}
	return out
}

func TestCheck_ValidLessons(t *testing.T) {
	for name, files := range map[string]map[string]string{
		"steps":  testutils.StepLesson(),
		"slides": testutils.SlideLesson(),
	} {
		t.Run(name, func(t *testing.T) {
			dir := testutils.WriteLesson(t, files)
			issues, err := validator.CheckDir(context.Background(), dir)
			require.NoError(t, err)
			assert.Empty(t, issues)
		})
	}
}

func TestCheck_AutoAdvanceWithoutGate(t *testing.T) {
	b := dsl.New("Broken")
	b.Item("one").Auto()
	b.Item("two")

	err := validator.Validate(b.Manifest(), b.Documents())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items/001")
	assert.Contains(t, err.Error(), domain.ErrAutoAdvanceWithoutGate.Error())
}

func TestCheck_Empty(t *testing.T) {
	b := dsl.New("Nothing")
	issues := validator.Check(b.Manifest(), b.Documents())
	require.NotEmpty(t, issues)
	assert.Equal(t, validator.SeverityError, issues[0].Severity)
	assert.True(t, errors.Is(issues[0].Err, domain.ErrEmptyLesson))
}

func TestCheck_InvalidManifest(t *testing.T) {
	b := dsl.New("Deck").Slides(lesson.SlidesManifest{Height: "huge"})
	b.Item("one")
	err := validator.Validate(b.Manifest(), b.Documents())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "huge")
}

func TestCheck_Warnings(t *testing.T) {
	b := dsl.New("").VarName("progress")
	b.Item("one").Gate("progress")
	b.Item("  ")
	b.Item("three").Gate("done").Auto()

	issues := validator.Check(b.Manifest(), b.Documents())
	assert.Equal(t, map[validator.Severity]int{validator.SeverityWarning: 4}, severities(issues))
	assert.NoError(t, validator.Validate(b.Manifest(), b.Documents()))

	d := dsl.New("Deck").Slides(lesson.SlidesManifest{})
	d.Item("one").Gate("x").Label("Go")
	issues = validator.Check(d.Manifest(), d.Documents())
	assert.Equal(t, map[validator.Severity]int{validator.SeverityWarning: 2}, severities(issues))
}

func TestCheckDir_Missing(t *testing.T) {
	_, err := validator.CheckDir(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}
