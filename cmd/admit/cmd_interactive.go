package main

import (
	"context"
	"fmt"

	"admitcast/cmd/admit/tui"
	"admitcast/cmd/admit/ui"
	"admitcast/internal/logging"
	"admitcast/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// runInteractive starts the terminal wizard.
func runInteractive(ctx context.Context) error {
	deps, closeCache := buildDeps(ctx)
	defer closeCache()

	session := wizard.NewSession(uuid.NewString(), deps)
	defer session.Close()
	logging.Get(logging.CategoryWizard).Infow("interactive session started", "session", session.ID())

	p := tea.NewProgram(tui.New(session, ui.DefaultStyles()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
