// Package tui plays a lesson page in the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/lesson"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the bubbletea model of the player. The page is only touched
// from Update, so the page's timers and store notifications must be posted
// through the model's Bridge.
type Model struct {
	page   *lesson.Page
	bridge *Bridge
	render Renderer
	keys   keyMap

	width    int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithRenderer replaces the markdown renderer.
func WithRenderer(r Renderer) Option {
	return func(m *Model) {
		m.render = r
	}
}

// New creates a player for an unmounted page. The page is mounted by Init
// and unmounted on quit.
func New(page *lesson.Page, bridge *Bridge, opts ...Option) Model {
	m := Model{
		page:   page,
		bridge: bridge,
		render: NewRenderer(0),
		keys:   defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init mounts the page and starts draining the bridge.
func (m Model) Init() tea.Cmd {
	m.page.Controller.Mount()
	return m.bridge.wait()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postedMsg:
		msg()
		return m, m.bridge.wait()
	case tea.WindowSizeMsg:
		if msg.Width != m.width {
			m.width = msg.Width
			m.render = NewRenderer(msg.Width)
		}
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.page.Controller
	switch {
	case key.Matches(msg, m.keys.Quit):
		c.Unmount()
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		c.Next()
	case key.Matches(msg, m.keys.Back):
		c.Prev()
	case key.Matches(msg, m.keys.Right):
		m.page.DispatchKey(domain.KeyArrowRight)
	case key.Matches(msg, m.keys.Left):
		m.page.DispatchKey(domain.KeyArrowLeft)
	case key.Matches(msg, m.keys.Down):
		m.page.DispatchKey(domain.KeyArrowDown)
	case key.Matches(msg, m.keys.Up):
		m.page.DispatchKey(domain.KeyArrowUp)
	case key.Matches(msg, m.keys.Jump):
		c.GoTo(int(msg.Runes[0]-'1'))
	case key.Matches(msg, m.keys.Complete):
		m.completeGate()
	}
	return m, nil
}

// completeGate satisfies the active step's gate, standing in for the
// embedded exercise a browser page would host.
func (m Model) completeGate() {
	if m.page.Step == nil {
		return
	}
	docs := m.page.Documents
	i := m.page.Step.Frontier()
	if !domain.InRange(i, len(docs)) || docs[i].Meta.CompletionVar == "" {
		return
	}
	m.page.Store.Write(docs[i].Meta.CompletionVar, true)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	if title := m.page.Title(); title != "" {
		sb.WriteString(titleStyle.Render(title))
		sb.WriteString("\n")
	}

	switch v := m.page.Controller.View().(type) {
	case domain.StepView:
		m.viewSteps(&sb, v)
	case domain.SlideView:
		m.viewSlides(&sb, v)
	}

	sb.WriteString(statusStyle.Render(m.help()))
	return sb.String()
}

func (m Model) markdown(src string) string {
	out, err := m.render(src)
	if err != nil {
		return src + "\n"
	}
	return out
}

func (m Model) viewSteps(sb *strings.Builder, v domain.StepView) {
	for _, it := range v.Items {
		body := m.markdown(it.Content)
		if it.State == domain.ItemCompleted {
			body = completedStyle.Render(body)
		}
		sb.WriteString(body)

		var controls []string
		if it.Back {
			controls = append(controls, controlStyle.Render("[b] Back"))
		}
		switch {
		case it.Continue != nil && it.Continue.Enabled:
			controls = append(controls, controlStyle.Render(fmt.Sprintf("[enter] %s", it.Continue.Label)))
		case it.Continue != nil:
			controls = append(controls, disabledStyle.Render(fmt.Sprintf("[enter] %s", it.Continue.Label)))
		case it.Auto:
			controls = append(controls, disabledStyle.Render("continues when the exercise is complete"))
		}
		if len(controls) > 0 {
			sb.WriteString("  " + strings.Join(controls, "  ") + "\n")
		}
	}
	if v.Progress != nil {
		sb.WriteString(statusStyle.Render(v.Progress.Text))
		sb.WriteString("\n")
	}
}

func arrow(glyph string, disabled bool) string {
	if disabled {
		return disabledStyle.Render(glyph)
	}
	return controlStyle.Render(glyph)
}

func (m Model) viewSlides(sb *strings.Builder, v domain.SlideView) {
	if v.Item != nil {
		sb.WriteString(m.markdown(v.Item.Content))
	}

	var footer []string
	if v.Arrows != nil {
		footer = append(footer, arrow("←", v.Arrows.PrevDisabled))
	}
	if len(v.Dots) > 0 {
		dots := make([]string, len(v.Dots))
		for i, d := range v.Dots {
			dots[i] = dotInactive
			if d.Active {
				dots[i] = dotActive
			}
		}
		footer = append(footer, strings.Join(dots, " "))
	}
	if v.Counter != "" {
		footer = append(footer, statusStyle.Render(v.Counter))
	}
	if v.Arrows != nil {
		footer = append(footer, arrow("→", v.Arrows.NextDisabled))
	}
	if len(footer) > 0 {
		sb.WriteString("  " + strings.Join(footer, "  ") + "\n")
	}
}

func (m Model) help() string {
	bindings := []key.Binding{m.keys.Next, m.keys.Back, m.keys.Complete, m.keys.Quit}
	if m.page.Layout() == domain.LayoutSlides {
		bindings = []key.Binding{m.keys.Left, m.keys.Right, m.keys.Jump, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
