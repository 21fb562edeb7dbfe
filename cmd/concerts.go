package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/localnext/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Concerts scans calendar pages and lists the extracted concerts without
// touching Spotify. Useful for tuning the exclude list before a build.
func (r *Runner) Concerts(ctx context.Context, cmd *cli.Command) error {
	queries, year, month, err := parseBuildArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	scanner := r.newScanner(db)
	engine := r.newEngine(scanner, false, false)

	r.logger.Info("scanning concerts", "year", year, "month", month.String(), "areas", len(queries))

	concerts, err := engine.Concerts(ctx, queries)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if savePath := cmd.String("save"); savePath != "" {
		var data []byte
		if strings.EqualFold(filepath.Ext(savePath), ".csv") {
			if data, err = formatter.ConcertsToCSV(concerts); err != nil {
				return fmt.Errorf("failed to format export: %w", err)
			}
		} else {
			data = formatter.ConcertsToText(concerts)
		}
		if err := formatter.WriteExport(savePath, data); err != nil {
			return err
		}
		r.logger.Info("concerts saved", "path", savePath)
	}

	if cmd.Bool("json") {
		return r.writeJSON(concerts, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d concerts in %s %d:\n\n", len(concerts), month, year)
	for i, c := range concerts {
		r.writePlain("%d. %s\n", i+1, c.Name)
	}

	return nil
}
