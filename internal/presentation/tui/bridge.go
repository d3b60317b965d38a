package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge is a ports.Dispatcher that runs posted callbacks inside the
// bubbletea update loop, where the page lives. Timer fires and remote store
// changes must be posted through it.
type Bridge struct {
	ch chan func()
}

// NewBridge creates a bridge with a small buffer.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan func(), 64)}
}

// Post queues fn. It blocks while the buffer is full.
func (b *Bridge) Post(fn func()) {
	b.ch <- fn
}

type postedMsg func()

func (b *Bridge) wait() tea.Cmd {
	return func() tea.Msg {
		return postedMsg(<-b.ch)
	}
}
