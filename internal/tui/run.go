package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the workbench until the user quits or ctx is cancelled.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
