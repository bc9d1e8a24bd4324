package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/danieljhkim/mapbench/internal/config"
)

type styles struct {
	Title    lipgloss.Style
	Cursor   lipgloss.Style
	Grabbed  lipgloss.Style
	Pinned   lipgloss.Style
	Hidden   lipgloss.Style
	Status   lipgloss.Style
	Warning  lipgloss.Style
	Selected lipgloss.Style
	Text     lipgloss.Style
}

func newStyles(p config.Palette) styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return styles{
		Title:    fg(p.Title).Bold(true),
		Cursor:   fg(p.Cursor).Bold(true),
		Grabbed:  fg(p.Grabbed).Bold(true).Reverse(true),
		Pinned:   fg(p.Pinned),
		Hidden:   fg(p.Hidden).Faint(true),
		Status:   fg(p.Status),
		Warning:  fg(p.Warning).Bold(true),
		Selected: fg(p.Selected),
		Text:     lipgloss.NewStyle(),
	}
}
