package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/dsl"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, b *dsl.Builder) (*Server, *memory.Store) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	l := loop.New(8)
	go func() { _ = l.Run(ctx) }()

	store := memory.NewStore()
	page, err := b.Build(store)
	require.NoError(t, err)

	s := NewServer(l)
	require.NoError(t, s.SetPage(ctx, page))
	return s, store
}

func steps() *dsl.Builder {
	b := dsl.New("Fractions").VarName("progress")
	b.Item("Intro")
	b.Item("Quiz").Gate("quiz")
	b.Item("Done")
	return b
}

func TestServer_NoPage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := loop.New(1)
	go func() { _ = l.Run(ctx) }()

	s := NewServer(l)
	_, err := s.handleInspect(ctx, mcp.CallToolRequest{}, nil)
	assert.ErrorIs(t, err, ErrNoPage)
}

func TestServer_StepTools(t *testing.T) {
	s, store := newTestServer(t, steps())
	ctx := context.Background()

	resp, err := s.handleInspect(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Fractions", resp.Title)
	assert.Equal(t, 0, resp.Snapshot.Current)
	assert.False(t, resp.Changed)
	assert.IsType(t, domain.StepView{}, resp.View)

	resp, err = s.handleNext(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, resp.Snapshot.Current)

	resp, err = s.handleNext(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.False(t, resp.Changed, "gate not ready")

	for _, index := range []float64{2, 0} {
		resp, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, map[string]any{"index": index})
		require.NoError(t, err)
		assert.False(t, resp.Changed, "go_to %v", index)
		assert.Equal(t, 1, resp.Snapshot.Current)
	}

	v, err := s.handleWriteVariable(ctx, mcp.CallToolRequest{}, map[string]any{"key": "quiz", "value": "true"})
	require.NoError(t, err)
	assert.Equal(t, true, v.Value)
	assert.True(t, v.Ready)
	assert.Equal(t, true, store.Read("quiz", nil))

	resp, err = s.handleNext(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, 2, resp.Snapshot.Current)

	v, err = s.handleReadVariable(ctx, mcp.CallToolRequest{}, map[string]any{"key": "progress"})
	require.NoError(t, err)
	assert.Equal(t, 2, v.Value)

	// Back is not allowed in this lesson.
	resp, err = s.handlePrev(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.False(t, resp.Changed)
}

func TestServer_SlideTools(t *testing.T) {
	b := dsl.New("Deck").Slides(lesson.SlidesManifest{})
	b.Item("one")
	b.Item("two")
	b.Item("three")
	s, _ := newTestServer(t, b)
	ctx := context.Background()

	resp, err := s.handlePressKey(ctx, mcp.CallToolRequest{}, map[string]any{"key": "ArrowDown"})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, resp.Snapshot.Current)

	resp, err = s.handlePressKey(ctx, mcp.CallToolRequest{}, map[string]any{"key": "Enter"})
	require.NoError(t, err)
	assert.False(t, resp.Changed)

	// JSON numbers arrive as float64.
	resp, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, map[string]any{"index": float64(2)})
	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, 2, resp.Snapshot.Current)

	resp, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, map[string]any{"index": float64(7)})
	require.NoError(t, err)
	assert.False(t, resp.Changed)

	_, err = s.handleGoTo(ctx, mcp.CallToolRequest{}, map[string]any{"index": "abc"})
	assert.Error(t, err)
}

func TestServer_WriteBareString(t *testing.T) {
	s, store := newTestServer(t, steps())
	v, err := s.handleWriteVariable(context.Background(), mcp.CallToolRequest{}, map[string]any{"key": "name", "value": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", v.Value)
	assert.Equal(t, "Ada", store.Read("name", nil))

	v, err = s.handleWriteVariable(context.Background(), mcp.CallToolRequest{}, map[string]any{"key": "score", "value": "0"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("0"), v.Value)
	assert.False(t, v.Ready)
}

func TestServer_LessonResource(t *testing.T) {
	s, _ := newTestServer(t, steps())

	data, err := s.readLesson(context.Background())
	require.NoError(t, err)

	var res struct {
		Manifest lesson.Manifest   `json:"manifest"`
		Items    []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, "Fractions", res.Manifest.Title)
	assert.Len(t, res.Items, 3)
}
