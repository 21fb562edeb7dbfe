// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles initial configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config file, initialize database, and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles Spotify OAuth2 authorization.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with Spotify using OAuth2",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "listen",
				Usage: "Start a local callback server instead of pasting the redirect URL",
			},
		},
		Action: r.Auth,
	}
}

// buildCommand runs the full scan-resolve-publish pipeline.
func buildCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Scan concert listings and publish a playlist of top tracks",
		ArgsUsage: "<year> <month> <area-id> [area-id...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (default: \"Local Next Month: {Month}\")",
			},
			&cli.BoolFlag{
				Name:  "no-shuffle",
				Usage: "Keep tracks in first-seen artist order",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Create the playlist as public instead of private",
			},
			&cli.BoolFlag{
				Name:  "expand-lineups",
				Usage: "Resolve festival lineup artists when a bill name has no exact match",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Collect and report without creating a playlist",
			},
			&cli.StringFlag{
				Name:    "save",
				Aliases: []string{"o"},
				Usage:   "Save collected results to a file (.csv, .md, .json, or .txt)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Build,
	}
}

// concertsCommand lists extracted concert names without touching Spotify.
func concertsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "concerts",
		Usage:     "List concerts for a month and area without building a playlist",
		ArgsUsage: "<year> <month> <area-id> [area-id...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.StringFlag{
				Name:    "save",
				Aliases: []string{"o"},
				Usage:   "Save concert list to a file (.csv or .txt)",
			},
		},
		Action: r.Concerts,
	}
}

// cacheCommand inspects and clears the page cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the local page cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached pages, newest first",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:   "clear",
				Usage:  "Delete every cached page",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Interactive build with track review before publishing",
		ArgsUsage: "<year> <month> <area-id> [area-id...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Playlist name (default: \"Local Next Month: {Month}\")",
			},
			&cli.BoolFlag{
				Name:  "no-shuffle",
				Usage: "Keep tracks in first-seen artist order",
			},
		},
		Action: r.TUI,
	}
}
