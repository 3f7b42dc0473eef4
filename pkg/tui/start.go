package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Start runs the wallet view until the user quits or parent is done. Pending wallet calls
// are cancelled on exit.
func Start(parent context.Context, svc Services, version string) error {
	Version = version
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	p := tea.NewProgram(
		initialModel(ctx, svc),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
