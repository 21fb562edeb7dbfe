package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/localnext/internal/formatter"
	"github.com/desertthunder/localnext/internal/shared"
	"github.com/desertthunder/localnext/internal/tasks"
	"github.com/urfave/cli/v3"
)

// playlistName returns the default playlist title for a month.
func playlistName(month time.Month) string {
	return fmt.Sprintf("Local Next Month: %s", month)
}

// playlistDescription returns the default playlist description.
func playlistDescription(year int, month time.Month) string {
	return fmt.Sprintf(
		"A playlist with tracks from artists playing in the local area in %s %d. Created by localnext https://github.com/desertthunder/localnext/",
		month, year,
	)
}

// Build runs the full pipeline: scan calendar pages, resolve artists, fetch
// top tracks, and publish a playlist (private unless --public is set).
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
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

	scanner := r.newScanner(db)
	expand := cmd.Bool("expand-lineups") || r.config.Listing.ExpandLineups
	engine := r.newEngine(scanner, !cmd.Bool("no-shuffle"), expand)

	r.logger.Info("starting build", "year", year, "month", month.String(), "areas", len(queries))

	collected, err := engine.Collect(ctx, nil, queries)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	if savePath := cmd.String("save"); savePath != "" {
		data, err := formatter.FormatForPath(savePath, name, collected)
		if err != nil {
			return fmt.Errorf("failed to format export: %w", err)
		}
		if err := formatter.WriteExport(savePath, data); err != nil {
			return err
		}
		r.logger.Info("results saved", "path", savePath)
	}

	if cmd.Bool("dry-run") {
		return r.reportCollect(cmd, name, collected)
	}

	published, err := engine.Publish(ctx, nil, name, description, cmd.Bool("public"), collected.Tracks)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tasks.BuildResult{Collect: collected, Publish: published}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("✓ Playlist created: %s", published.Playlist.Name))
	r.writePlain("Concerts found: %d\n", len(collected.Concerts))
	r.writePlain("Artists resolved: %d\n", len(collected.Artists))
	r.writePlain("Tracks added: %d (in %d batches)\n", len(collected.Tracks), len(published.Batches))
	if published.Playlist.URI != "" {
		r.writePlain("URI: %s\n", published.Playlist.URI)
	}
	r.reportMisses(collected)

	return nil
}

// reportCollect prints a collect result without publishing.
func (r *Runner) reportCollect(cmd *cli.Command, name string, collected *tasks.CollectResult) error {
	if cmd.Bool("json") {
		return r.writeJSON(collected, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Dry run: %s", name))
	r.writePlain("Concerts found: %d\n", len(collected.Concerts))
	r.writePlain("Artists resolved: %d\n", len(collected.Artists))
	r.writePlain("Tracks collected: %d\n\n", len(collected.Tracks))

	for i, track := range collected.Tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Artist, track.Name)
	}
	r.reportMisses(collected)

	return nil
}

func (r *Runner) reportMisses(collected *tasks.CollectResult) {
	if len(collected.Unresolved) > 0 {
		r.writePlainln("No exact match for %d names:", len(collected.Unresolved))
		for _, name := range collected.Unresolved {
			r.writePlain("  • %s\n", name)
		}
	}
	if len(collected.Skipped) > 0 {
		r.writePlainln("Skipped %d names via exclude list:", len(collected.Skipped))
		for _, name := range collected.Skipped {
			r.writePlain("  • %s\n", name)
		}
	}
}
