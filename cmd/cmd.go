// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (text, markdown, csv)",
		Value:   "text",
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of rows to return",
		Value: 50,
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
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
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// playCommand launches the interactive player.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive player",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Media backend (virtual or ffplay); overrides the config",
			},
		},
		Action: r.Play,
	}
}

// catalogCommand handles catalog listing and export.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Browse the track catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog tracks",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{
						Name:  "album",
						Usage: "Only list tracks from this album ID",
					},
					&cli.BoolFlag{
						Name:  "fallback",
						Usage: "Use the built-in fallback tracks when the catalog is unavailable",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:  "export",
				Usage: "Export the catalog as Markdown with a cover image",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Output directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Document title",
						Value: "Catalog",
					},
					&cli.StringFlag{
						Name:  "album",
						Usage: "Only export tracks from this album ID",
					},
				},
				Action: r.CatalogExport,
			},
		},
	}
}

// historyCommand handles local listening history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Local listening history",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recently played tracks",
				Flags:  []cli.Flag{formatFlag(), limitFlag()},
				Action: r.HistoryList,
			},
			{
				Name:   "artists",
				Usage:  "List recently played artists",
				Flags:  []cli.Flag{formatFlag(), limitFlag()},
				Action: r.HistoryArtists,
			},
			{
				Name:   "clear",
				Usage:  "Delete all history entries",
				Action: r.HistoryClear,
			},
		},
	}
}

// settingsCommand reads and writes persisted player settings.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Persisted player settings",
		Commands: []*cli.Command{
			{
				Name:  "volume",
				Usage: "Show or change the stored volume",
				Commands: []*cli.Command{
					{
						Name:   "get",
						Usage:  "Print the stored volume",
						Action: r.SettingsVolumeGet,
					},
					{
						Name:  "set",
						Usage: "Store a volume between 0 and 1",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "value"},
						},
						Action: r.SettingsVolumeSet,
					},
				},
			},
		},
	}
}

// apiCommand handles direct API gateway calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the API gateway",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
