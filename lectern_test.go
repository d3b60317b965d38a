package lectern_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/lectern"
	"github.com/aretw0/lectern/internal/testutils"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/dsl"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(lectern.Version))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := testutils.WriteLesson(t, testutils.SlideLesson())
	store := memory.NewStore()

	player, err := lectern.Open(ctx, dir, lectern.WithStore(store))
	require.NoError(t, err)
	defer player.Close()

	snap, err := player.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LayoutSlides, snap.Layout)
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, 0, store.Read("planet", nil), "mount writes the initial index")

	require.NoError(t, player.Do(ctx, func(p *lesson.Page) { p.DispatchKey(domain.KeyArrowRight) }))
	assert.Equal(t, 1, player.Read("planet", nil))
}

func TestOpen_Missing(t *testing.T) {
	_, err := lectern.Open(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrLessonNotFound)
}

func TestPlayer_Close(t *testing.T) {
	ctx := context.Background()
	b := dsl.New("Deck").Slides(lesson.SlidesManifest{})
	b.Item("one")
	b.Item("two")

	store := memory.NewStore()
	player, err := lectern.FromBuilder(ctx, b, lectern.WithStore(store))
	require.NoError(t, err)

	require.NoError(t, player.Close())
	require.NoError(t, player.Close())

	_, err = player.Next(ctx)
	assert.ErrorIs(t, err, lectern.ErrClosed)
}

func TestFromBuilder_InvalidLesson(t *testing.T) {
	b := dsl.New("Broken")
	b.Item("one").Auto()
	_, err := lectern.FromBuilder(context.Background(), b)
	assert.ErrorIs(t, err, domain.ErrAutoAdvanceWithoutGate)
}

func TestPlayer_GoToRespectsGates(t *testing.T) {
	ctx := context.Background()
	b := dsl.New("Fractions")
	b.Item("Intro")
	b.Item("What is 1/2 + 1/4?").Gate("quiz")
	b.Item("The answer is 3/4.")

	player, err := lectern.FromBuilder(ctx, b)
	require.NoError(t, err)
	defer player.Close()

	require.NoError(t, player.GoTo(ctx, 1))
	require.NoError(t, player.GoTo(ctx, 2))
	snap, err := player.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Current, "the quiz gate is closed")

	require.NoError(t, player.GoTo(ctx, 0))
	snap, err = player.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Current, "back navigation is off")

	require.NoError(t, player.Write(ctx, "quiz", "3/4"))
	require.NoError(t, player.GoTo(ctx, 2))
	snap, err = player.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Current)
}
