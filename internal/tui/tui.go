package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/westy/filemaster/internal/config"
	"github.com/westy/filemaster/internal/logging"
)

// Run starts the browser in the alternate screen and blocks until the
// user quits.
func Run(cfg *config.Config, log *logging.Logger) error {
	m := NewModel(cfg, log)
	if m.watcher != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go m.watcher.Run(ctx)
		defer m.watcher.Close()
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
