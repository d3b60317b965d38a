package step_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/step"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(n int) []domain.StepItem {
	items := make([]domain.StepItem, n)
	for i := range items {
		items[i] = domain.StepItem{Content: "step"}
	}
	return items
}

func newController(t *testing.T, items []domain.StepItem, cfg step.Config, opts ...step.Option) (*step.Controller, *memory.Store, *clock.Manual) {
	t.Helper()
	store := memory.NewStore()
	clk := clock.NewManual(time.Unix(0, 0))
	opts = append([]step.Option{step.WithClock(clk)}, opts...)
	c, err := step.New(store, items, cfg, opts...)
	require.NoError(t, err)
	return c, store, clk
}

func TestNew_RejectsAutoAdvanceWithoutGate(t *testing.T) {
	items := []domain.StepItem{{Content: "a"}, {Content: "b", AutoAdvance: true}}
	_, err := step.New(memory.NewStore(), items, step.DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrAutoAdvanceWithoutGate)
	assert.Contains(t, err.Error(), "step 1")
}

func TestScenario_ContinueToTheEnd(t *testing.T) {
	cfg := step.DefaultConfig()
	cfg.VarName = "sp"
	c, store, _ := newController(t, plain(3), cfg)
	c.Mount()

	assert.Equal(t, 0, c.Frontier())
	assert.Equal(t, 0, store.Read("sp", nil))

	require.True(t, c.Continue())
	require.True(t, c.Continue())

	assert.Equal(t, 2, c.Frontier())
	assert.Equal(t, 2, store.Read("sp", nil))

	v := c.View()
	require.Len(t, v.Items, 3)
	assert.Nil(t, v.Items[2].Continue, "final item renders no Continue control")
	assert.False(t, c.Continue())
}

func TestScenario_GatedContinue(t *testing.T) {
	items := []domain.StepItem{
		{Content: "What is 6x7?", CompletionVarName: "ans"},
		{Content: "Correct"},
	}
	c, store, _ := newController(t, items, step.DefaultConfig())
	c.Mount()

	cont := c.View().Items[0].Continue
	require.NotNil(t, cont)
	assert.False(t, cont.Enabled)
	assert.False(t, c.Continue())
	assert.Equal(t, 0, c.Frontier())

	store.Write("ans", "42")
	assert.True(t, c.View().Items[0].Continue.Enabled)
	assert.True(t, c.Continue())
	assert.Equal(t, 1, c.Frontier())
}

func TestReveal_OutOfRangeIsNoop(t *testing.T) {
	cfg := step.DefaultConfig()
	cfg.VarName = "p"
	var revealed []int
	cfg.OnStepReveal = func(i int) { revealed = append(revealed, i) }
	c, store, _ := newController(t, plain(3), cfg)

	c.Reveal(1)
	c.Reveal(-1)
	c.Reveal(3)
	c.RevealNext(2)

	assert.Equal(t, 1, c.Frontier())
	assert.Equal(t, 1, store.Read("p", nil))
	assert.Equal(t, []int{1}, revealed)
}

func TestRevealPrev(t *testing.T) {
	t.Run("disabled without back navigation", func(t *testing.T) {
		c, _, _ := newController(t, plain(3), step.DefaultConfig())
		c.Reveal(2)
		c.RevealPrev(2)
		assert.Equal(t, 2, c.Frontier())
		assert.False(t, c.Back())
	})

	t.Run("floors at zero", func(t *testing.T) {
		cfg := step.DefaultConfig()
		cfg.AllowBack = true
		c, _, _ := newController(t, plain(3), cfg)
		c.Reveal(1)
		c.RevealPrev(1)
		c.RevealPrev(0)
		c.RevealPrev(0)
		assert.Equal(t, 0, c.Frontier())
	})

	t.Run("back control", func(t *testing.T) {
		cfg := step.DefaultConfig()
		cfg.AllowBack = true
		c, _, _ := newController(t, plain(3), cfg)
		c.Mount()
		assert.False(t, c.View().Items[0].Back, "no back control on the first item")
		c.Reveal(2)
		assert.True(t, c.View().Items[2].Back)
		assert.True(t, c.Back())
		assert.Equal(t, 1, c.Frontier())
		assert.Equal(t, domain.ItemHidden, c.ItemState(2))
	})
}

func TestView_OnlyInstantiatesUpToFrontier(t *testing.T) {
	items := []domain.StepItem{
		{Content: "question"},
		{Content: "answer: 42", ClassName: "reveal"},
		{Content: "summary"},
	}
	c, _, _ := newController(t, items, step.DefaultConfig())
	c.Mount()

	v := c.View()
	require.Len(t, v.Items, 1)
	for _, it := range v.Items {
		assert.NotContains(t, it.Content, "42")
	}

	c.Reveal(1)
	v = c.View()
	require.Len(t, v.Items, 2)
	assert.Equal(t, domain.ItemCompleted, v.Items[0].State)
	assert.Equal(t, domain.ItemActive, v.Items[1].State)
	assert.Equal(t, "reveal", v.Items[1].ClassName)
	assert.Equal(t, domain.ItemHidden, c.ItemState(2))
	assert.Equal(t, domain.Snapshot{Layout: domain.LayoutSteps, Total: 3, Current: 1}, v.Snapshot)
}

func TestView_Labels(t *testing.T) {
	items := []domain.StepItem{{Content: "a", RevealLabel: "I'm ready"}, {Content: "b"}, {Content: "c"}}
	cfg := step.DefaultConfig()
	cfg.RevealLabel = "Next"
	c, _, _ := newController(t, items, cfg)
	c.Mount()

	assert.Equal(t, "I'm ready", c.View().Items[0].Continue.Label)
	c.Continue()
	assert.Equal(t, "Next", c.View().Items[1].Continue.Label)
}

func TestProgress(t *testing.T) {
	c, _, _ := newController(t, plain(5), step.DefaultConfig())
	c.Reveal(1)
	cur, total, ok := c.Progress()
	assert.True(t, ok)
	assert.Equal(t, 2, cur)
	assert.Equal(t, 5, total)
	assert.Equal(t, "2 of 5", c.View().Progress.Text)

	single, _, _ := newController(t, plain(1), step.DefaultConfig())
	_, _, ok = single.Progress()
	assert.False(t, ok)
	assert.Nil(t, single.View().Progress)

	cfg := step.DefaultConfig()
	cfg.ShowProgress = false
	hidden, _, _ := newController(t, plain(3), cfg)
	_, _, ok = hidden.Progress()
	assert.False(t, ok)
}

func TestMount_PublishesAndUnmountKeepsValue(t *testing.T) {
	cfg := step.DefaultConfig()
	cfg.VarName = "p"
	c, store, _ := newController(t, plain(3), cfg)

	c.Mount()
	c.Mount()
	c.Reveal(1)
	c.Unmount()
	c.Unmount()

	assert.Equal(t, 1, store.Read("p", nil))
	assert.False(t, c.Mounted())
}

func TestEmptySequence(t *testing.T) {
	cfg := step.DefaultConfig()
	cfg.VarName = "p"
	c, store, _ := newController(t, nil, cfg)
	c.Mount()
	c.Reveal(0)
	assert.False(t, c.Continue())
	assert.Nil(t, store.Read("p", nil))
	assert.Empty(t, c.View().Items)
}

func TestHooks(t *testing.T) {
	var mounts, navs, autos, gates int
	hooks := domain.LifecycleHooks{
		OnMount:       func(context.Context, *domain.Snapshot) { mounts++ },
		OnNavigate:    func(context.Context, *domain.NavigationEvent) { navs++ },
		OnAutoAdvance: func(context.Context, *domain.NavigationEvent) { autos++ },
		OnGateChange:  func(context.Context, *domain.GateEvent) { gates++ },
	}
	items := []domain.StepItem{
		{Content: "a", CompletionVarName: "g", AutoAdvance: true},
		{Content: "b", CompletionVarName: "h"},
		{Content: "c"},
	}
	c, store, clk := newController(t, items, step.DefaultConfig(), step.WithLifecycleHooks(hooks))
	c.Mount()
	store.Write("g", true)
	clk.Advance(step.AutoAdvanceDelay)
	store.Write("h", 1)
	c.Continue()

	assert.Equal(t, 1, mounts)
	assert.Equal(t, 2, navs)
	assert.Equal(t, 1, autos)
	assert.Equal(t, 2, gates)
}

func TestJump_FollowsControls(t *testing.T) {
	items := []domain.StepItem{
		{Content: "intro"},
		{Content: "question", CompletionVarName: "quiz"},
		{Content: "answer"},
		{Content: "exercise", CompletionVarName: "done", AutoAdvance: true},
		{Content: "end"},
	}

	t.Run("without back", func(t *testing.T) {
		c, store, _ := newController(t, items, step.DefaultConfig())
		c.Mount()

		assert.False(t, c.Jump(2), "cannot skip ahead")
		assert.True(t, c.Jump(1))
		assert.False(t, c.Jump(2), "gate closed")
		assert.Equal(t, 1, c.Frontier())

		store.Write("quiz", "3/4")
		assert.True(t, c.Jump(2))
		assert.True(t, c.Jump(3), "ungated items continue freely")
		assert.Equal(t, 3, c.Frontier())

		assert.False(t, c.Jump(4), "auto-advancing items have no Continue control")
		assert.False(t, c.Jump(0), "back navigation is off")
		assert.Equal(t, 3, c.Frontier())
	})

	t.Run("with back", func(t *testing.T) {
		cfg := step.DefaultConfig()
		cfg.AllowBack = true
		c, _, _ := newController(t, items, cfg)
		c.Mount()
		c.Reveal(3)

		assert.True(t, c.Jump(0))
		assert.Equal(t, 0, c.Frontier())
		assert.False(t, c.Jump(0), "already there")
		assert.False(t, c.Jump(-1))
	})
}
