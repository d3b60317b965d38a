package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
	completedStyle = lipgloss.NewStyle().Faint(true)
	controlStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#818cf8"))
	disabledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	dotActive      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e879f9")).Render("●")
	dotInactive    = disabledStyle.Render("○")
)
