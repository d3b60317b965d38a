package slide_test

import (
	"context"
	"testing"

	"github.com/aretw0/lectern/pkg/adapters/keys"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/slide"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func deck(n int) []domain.SlideItem {
	items := make([]domain.SlideItem, n)
	for i := range items {
		items[i] = domain.SlideItem{Content: string(rune('A' + i))}
	}
	return items
}

func newDeck(t *testing.T, n int, cfg slide.Config, opts ...slide.Option) (*slide.Controller, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	c, err := slide.New(store, deck(n), cfg, opts...)
	require.NoError(t, err)
	return c, store
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, slide.DefaultConfig().Validate())
	assert.NoError(t, slide.Config{}.Validate())

	cfg := slide.DefaultConfig()
	cfg.Height = "huge"
	cfg.Transition = "spin"
	err := cfg.Validate()
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
	assert.Contains(t, err.Error(), "huge")
	assert.Contains(t, err.Error(), "spin")

	_, err = slide.New(memory.NewStore(), deck(2), cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
}

func TestNew_AppliesDefaults(t *testing.T) {
	c, _ := newDeck(t, 2, slide.Config{})
	cfg := c.Config()
	assert.Equal(t, domain.HeightMedium, cfg.Height)
	assert.Equal(t, domain.TransitionFade, cfg.Transition)
	assert.Equal(t, domain.ArrowsInside, cfg.ArrowPosition)
}

func TestScenario_DotJump(t *testing.T) {
	cfg := slide.DefaultConfig()
	cfg.VarName = "pos"
	for start := 0; start < 4; start++ {
		c, store := newDeck(t, 4, cfg)
		c.Mount()
		c.GoTo(start)
		epoch := c.Epoch()

		require.True(t, c.ClickDot(2))

		assert.Equal(t, 2, c.Position())
		assert.Equal(t, 2, store.Read("pos", nil))
		assert.Equal(t, epoch+1, c.Epoch())
		if start <= 2 {
			assert.Equal(t, domain.DirectionNext, c.Direction(), "from %d", start)
		} else {
			assert.Equal(t, domain.DirectionPrev, c.Direction(), "from %d", start)
		}
		dots := c.View().Dots
		require.Len(t, dots, 4)
		assert.True(t, dots[2].Active)
	}
}

func TestGoTo_OutOfRangeIsNoop(t *testing.T) {
	cfg := slide.DefaultConfig()
	cfg.VarName = "pos"
	changes := 0
	cfg.OnSlideChange = func(int) { changes++ }
	c, store := newDeck(t, 3, cfg)
	c.GoTo(1)

	c.GoTo(-1)
	c.GoTo(3)
	assert.Equal(t, 1, c.Position())
	assert.Equal(t, uint64(1), c.Epoch())
	assert.Equal(t, 1, changes)

	c.GoTo(2)
	c.GoNext()
	assert.Equal(t, 2, c.Position(), "no wraparound at the end")
	c.GoTo(0)
	c.GoPrev()
	assert.Equal(t, 0, c.Position(), "no wraparound at the start")
	assert.Equal(t, 0, store.Read("pos", nil))
}

func TestReconfirmReplaysTransition(t *testing.T) {
	c, _ := newDeck(t, 3, slide.DefaultConfig())
	c.GoTo(1)
	key := c.TransitionKey()
	c.GoTo(1)
	assert.NotEqual(t, key, c.TransitionKey())
	assert.Equal(t, "1-2", c.TransitionKey())
	assert.Equal(t, domain.DirectionNext, c.Direction())
}

func TestTransitionClass(t *testing.T) {
	cfg := slide.DefaultConfig()
	cfg.Transition = domain.TransitionSlide
	c, _ := newDeck(t, 3, cfg)

	c.GoNext()
	assert.Equal(t, "slide-in-right", c.TransitionClass())
	c.GoPrev()
	assert.Equal(t, "slide-in-left", c.TransitionClass())

	cfg.Transition = domain.TransitionNone
	none, _ := newDeck(t, 3, cfg)
	assert.Empty(t, none.TransitionClass())

	fade, _ := newDeck(t, 3, slide.DefaultConfig())
	assert.Equal(t, "fade-in", fade.TransitionClass())
}

func TestKeyboard(t *testing.T) {
	tests := []struct {
		key  domain.Key
		want int
	}{
		{domain.KeyArrowRight, 2},
		{domain.KeyArrowDown, 2},
		{domain.KeyArrowLeft, 0},
		{domain.KeyArrowUp, 0},
		{"Enter", 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			bus := keys.NewBus()
			c, _ := newDeck(t, 3, slide.DefaultConfig(), slide.WithKeySource(bus))
			c.GoTo(1)
			c.Mount()
			bus.Dispatch(tt.key)
			assert.Equal(t, tt.want, c.Position())
		})
	}
}

func TestKeyboard_ListenerLifecycle(t *testing.T) {
	bus := keys.NewBus()
	c, _ := newDeck(t, 5, slide.DefaultConfig(), slide.WithKeySource(bus))

	bus.Dispatch(domain.KeyArrowRight)
	assert.Equal(t, 0, c.Position(), "not listening before mount")

	c.Mount()
	c.Mount()
	assert.Equal(t, 1, bus.Len())

	// Navigation through other paths must be visible to the listener.
	c.GoTo(3)
	bus.Dispatch(domain.KeyArrowRight)
	assert.Equal(t, 4, c.Position())
	c.ClickDot(1)
	bus.Dispatch(domain.KeyArrowLeft)
	assert.Equal(t, 0, c.Position())

	c.Unmount()
	assert.Equal(t, 0, bus.Len())
	bus.Dispatch(domain.KeyArrowRight)
	assert.Equal(t, 0, c.Position())
}

func TestView(t *testing.T) {
	cfg := slide.DefaultConfig()
	cfg.ShowCounter = true
	cfg.ArrowPosition = domain.ArrowsOutside
	c, _ := newDeck(t, 4, cfg)

	v := c.View()
	require.NotNil(t, v.Item)
	assert.Equal(t, "A", v.Item.Content)
	assert.True(t, v.Arrows.PrevDisabled)
	assert.False(t, v.Arrows.NextDisabled)
	assert.Equal(t, domain.ArrowsOutside, v.Arrows.Position)
	assert.Equal(t, "1 / 4", v.Counter)

	c.GoTo(3)
	v = c.View()
	assert.Equal(t, "D", v.Item.Content)
	assert.False(t, v.Arrows.PrevDisabled)
	assert.True(t, v.Arrows.NextDisabled)
	assert.Equal(t, "4 / 4", v.Counter)
	assert.Equal(t, domain.Snapshot{
		Layout: domain.LayoutSlides, Total: 4, Current: 3,
		Direction: domain.DirectionNext, Epoch: 1,
	}, v.Snapshot)

	assert.False(t, c.ClickNext(), "next arrow disabled on the last slide")
	assert.True(t, c.ClickPrev())
	assert.Equal(t, 2, c.Position())
}

func TestView_HiddenAffordances(t *testing.T) {
	cfg := slide.DefaultConfig()
	cfg.ShowArrows = false
	cfg.ShowDots = false
	c, _ := newDeck(t, 3, cfg)

	v := c.View()
	assert.Nil(t, v.Arrows)
	assert.Nil(t, v.Dots)
	assert.Empty(t, v.Counter)
	assert.False(t, c.ClickNext())
	assert.False(t, c.ClickDot(1))
}

func TestMountPublishesAndHooks(t *testing.T) {
	var mounted *domain.Snapshot
	var events []*domain.NavigationEvent
	hooks := domain.LifecycleHooks{
		OnMount:    func(_ context.Context, s *domain.Snapshot) { mounted = s },
		OnNavigate: func(_ context.Context, e *domain.NavigationEvent) { events = append(events, e) },
	}
	cfg := slide.DefaultConfig()
	cfg.VarName = "pos"
	c, store := newDeck(t, 3, cfg, slide.WithLifecycleHooks(hooks))

	c.Mount()
	require.NotNil(t, mounted)
	assert.Equal(t, 0, store.Read("pos", nil))

	c.HandleKey(domain.KeyArrowRight)
	c.Unmount()
	assert.Equal(t, 1, store.Read("pos", nil))

	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionKey, events[0].Action)
	assert.Equal(t, 0, events[0].From)
	assert.Equal(t, 1, events[0].To)
	assert.Equal(t, uint64(1), events[0].Epoch)
}

func TestArrowRightEquivalentToGoNext(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "n")
		start := rapid.IntRange(0, n-1).Draw(rt, "start")
		cfg := slide.DefaultConfig()
		cfg.VarName = "pos"

		keyStore, nextStore := memory.NewStore(), memory.NewStore()
		a, _ := slide.New(keyStore, deck(n), cfg)
		b, _ := slide.New(nextStore, deck(n), cfg)
		a.GoTo(start)
		b.GoTo(start)

		a.HandleKey(domain.KeyArrowRight)
		b.GoNext()

		assert.Equal(rt, b.Position(), a.Position())
		assert.Equal(rt, b.Snapshot(), a.Snapshot())
		assert.Equal(rt, nextStore.Read("pos", nil), keyStore.Read("pos", nil))
	})
}

func TestProperty_GoToRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(rt, "n")
		cfg := slide.DefaultConfig()
		cfg.VarName = "pos"
		store := memory.NewStore()
		c, err := slide.New(store, deck(n), cfg)
		if err != nil {
			rt.Fatal(err)
		}

		for _, i := range rapid.SliceOf(rapid.IntRange(-3, n+3)).Draw(rt, "indexes") {
			before, epoch := c.Position(), c.Epoch()
			c.GoTo(i)
			if i >= 0 && i < n {
				assert.Equal(rt, i, c.Position())
				assert.Equal(rt, i, store.Read("pos", nil))
				assert.Equal(rt, epoch+1, c.Epoch())
			} else {
				assert.Equal(rt, before, c.Position())
				assert.Equal(rt, epoch, c.Epoch())
			}
		}
	})
}
