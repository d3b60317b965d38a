package loam_test

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/internal/testutils"
	"github.com/aretw0/lectern/pkg/adapters/loam"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Items(t *testing.T) {
	dir := testutils.WriteLesson(t, testutils.StepLesson())

	loader, err := loam.Open(dir)
	require.NoError(t, err)

	docs, err := loader.Items(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3, "the manifest is not an item")

	assert.Equal(t, "items/01-intro", docs[0].ID)
	assert.Equal(t, "items/02-quiz", docs[1].ID)
	assert.Equal(t, "items/03-answer", docs[2].ID)

	quiz := docs[1].StepItem()
	assert.Equal(t, domain.StepItem{
		Content:           "What is 1/2 + 1/4?",
		RevealLabel:       "Check",
		CompletionVarName: "quiz_done",
		AutoAdvance:       true,
	}, quiz)

	intro := docs[0].SlideItem()
	assert.Equal(t, "intro", intro.ClassName)
	assert.Contains(t, intro.Content, "# Fractions")
}

func TestLoader_EmptyDirectory(t *testing.T) {
	dir := testutils.WriteLesson(t, map[string]string{"lesson.yaml": "layout: steps\n"})

	loader, err := loam.Open(dir)
	require.NoError(t, err)

	docs, err := loader.Items(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
