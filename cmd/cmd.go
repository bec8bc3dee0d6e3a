// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// playlistsCommand lists source playlists from the catalog
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List playlists from the catalog",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to show",
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
		Action: r.Playlists,
	}
}

// analyzeCommand merges playlists and reports genres and audio metrics
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"an"},
		Usage:   "Merge playlists and report genres and audio metrics",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Source playlist ID, repeatable ('liked' for liked songs)",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "tracks",
				Usage: "Number of tracks to list in plain output",
				Value: 20,
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
			&cli.StringFlag{
				Name:  "export",
				Usage: "Export format (csv, markdown, text, json)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path for --export",
			},
		},
		Action: r.Analyze,
	}
}

// vibeCommand scores tracks against vibe profiles and builds matching playlists
func vibeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "vibe",
		Usage: "Score tracks against vibe profiles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List configured vibe profiles",
				Flags: []cli.Flag{
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
				Action: r.VibeList,
			},
			{
				Name:  "create",
				Usage: "Create a playlist of tracks matching a vibe",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "vibe",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Source playlist ID, repeatable ('liked' for liked songs)",
						Required: true,
					},
					&cli.FloatFlag{
						Name:  "threshold",
						Usage: "Minimum match score between 0 and 1",
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
				Action: r.VibeCreate,
			},
		},
	}
}

// genreCommand reports genre counts and builds single-genre playlists
func genreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genre",
		Usage: "Genre listing and playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List genres across playlists with track counts",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Source playlist ID, repeatable ('liked' for liked songs)",
						Required: true,
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
				Action: r.GenreList,
			},
			{
				Name:  "create",
				Usage: "Create a playlist of tracks in a genre",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "genre",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "playlist",
						Aliases:  []string{"p"},
						Usage:    "Source playlist ID, repeatable ('liked' for liked songs)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Name for the created playlist",
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
				Action: r.GenreCreate,
			},
		},
	}
}

// deleteCommand removes a playlist from the user's library
func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Remove a playlist from your library",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Action: r.Delete,
	}
}

// setupCommand handles database setup and migration operations
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the cache database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "rollback",
				Usage: "Roll back the most recent database migration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupRollback,
			},
		},
	}
}

// cacheCommand inspects and clears the local metadata cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear the local metadata cache",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show cached artist and audio feature counts",
				Flags: []cli.Flag{
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
				Action: r.CacheStatus,
			},
			{
				Name:  "clear",
				Usage: "Delete all cached artists and audio features",
				Action: r.CacheClear,
			},
		},
	}
}
