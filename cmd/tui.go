package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/desertthunder/otoge/internal/tasks"
	"github.com/desertthunder/otoge/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI syncs every configured source behind the interactive progress view.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	sources, err := r.selectSources(cmd.StringSlice("only"))
	if err != nil {
		return err
	}
	defer r.Close()

	return r.runInteractive(ctx, sources)
}

// runInteractive syncs sources through the bubbletea view, logging to the configured file meanwhile.
func (r *Runner) runInteractive(ctx context.Context, sources []tasks.Source) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, f, err := shared.NewFileLogger(r.config.Storage.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer f.Close()

	previous := r.logger
	r.SetLogger(fileLogger)
	defer r.SetLogger(previous)

	// the client logs too, so it is rebuilt against the file logger
	r.client = nil
	r.configure()

	model := ui.NewModel(ctx, r.newEngine(sources))
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if result := model.Result(); result != nil {
		if err := result.Err(); err != nil {
			return exit(err, 1)
		}
	}
	return nil
}

// tuiCommand returns the top-level TUI command for interactive syncing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Sync with an interactive progress view",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Comma-separated sources to sync",
			},
		},
		Action: r.TUI,
	}
}
