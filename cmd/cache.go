package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/localnext/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheList prints every cached page with its size and fetch time.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPageRepository(db)

	pages, err := repo.List()
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(pages, true)
	}

	if len(pages) == 0 {
		r.writePlain("Cache is empty.\n")
		return nil
	}

	r.writePlain("Cached pages: %d\n\n", len(pages))
	for _, p := range pages {
		r.writePlain("%s\n", p.Key)
		r.writePlain("  Size: %d bytes\n", p.Size)
		r.writePlain("  Fetched: %s\n\n", p.FetchedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

// CacheClear removes every cached page.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewPageRepository(db)

	n, err := repo.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	r.logger.Info("cache cleared", "pages", n)
	r.writePlain("✓ Removed %d cached pages\n", n)

	return nil
}
