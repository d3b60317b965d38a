package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/lectern/internal/logging"
	"github.com/aretw0/lectern/internal/presentation/tui"
	"github.com/aretw0/lectern/pkg/adapters/clock"
	"github.com/aretw0/lectern/pkg/adapters/memory"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/aretw0/lectern/pkg/loop"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// PlayOptions configure RunPlay.
type PlayOptions struct {
	Options
	Plain bool // dump the lesson instead of starting the player
}

// RunPlay plays the lesson in the terminal. When stdout is not a terminal,
// or Plain is set, every item is printed instead.
func RunPlay(ctx context.Context, opts PlayOptions) error {
	cfg, err := LoadConfig(opts.Options)
	if err != nil {
		return err
	}
	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	if !opts.Debug {
		// Log lines would tear the player's screen.
		logger = logging.NewNop()
	}

	if opts.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		page, err := lesson.Open(ctx, opts.Dir, memory.NewStore())
		if err != nil {
			return err
		}
		return tui.Dump(os.Stdout, page, tui.NewPlainRenderer(80))
	}

	bridge := tui.NewBridge()
	store, closeStore, err := NewStore(ctx, cfg.Store, bridge, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	page, err := lesson.Open(ctx, opts.Dir, store,
		lesson.WithClock(loop.Clock(clock.NewSystem(), bridge)),
		lesson.WithLogger(logger),
		lesson.WithLifecycleHooks(Hooks(logger, nil)),
		lesson.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to load lesson: %w", err)
	}

	p := tea.NewProgram(tui.New(page, bridge), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// PrintBanner writes the banner unless w is not a terminal.
func PrintBanner(w io.Writer) {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		tui.PrintBanner(w)
	}
}
