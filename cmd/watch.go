package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrix/internal/shared"
	"github.com/desertthunder/lyrix/internal/tasks"
	"github.com/desertthunder/lyrix/internal/ui"
	"github.com/urfave/cli/v3"
)

// Watch launches the live now-playing dashboard.
//
// A session manager polls Spotify in the background; the TUI and a history
// watcher both consume its updates.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.ensureEngine()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/lyrix-watch.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	manager := r.newManager()
	manager.Start(watchCtx)
	defer manager.Stop()

	watcher := tasks.NewWatcher(manager, engine, fileLogger)
	go watcher.Run(watchCtx, nil)

	model := ui.NewModel(watchCtx, manager, engine)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
