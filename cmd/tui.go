package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/localnext/internal/shared"
	"github.com/desertthunder/localnext/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for the build pipeline.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	queries, year, month, err := parseBuildArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	if r.music == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'localnext auth'", shared.ErrNotAuthenticated)
	}

	name := cmd.String("name")
	if name == "" {
		name = playlistName(month)
	}
	description := playlistDescription(year, month)

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/localnext-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	scanner := r.newScanner(db)
	engine := r.newEngine(scanner, !cmd.Bool("no-shuffle"), r.config.Listing.ExpandLineups)

	model := ui.NewModel(ctx, engine, queries, name, description)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
