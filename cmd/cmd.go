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

func sourceFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "source",
		Aliases: []string{"s"},
		Usage:   "Catalog source (qq, netease, kuwo)",
		Value:   "netease",
	}
}

// serveCommand starts the HTTP API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to bind (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// searchCommand searches a catalog source
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search a music catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "keyword"},
		},
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
			&cli.StringFlag{
				Name:    "csv",
				Aliases: []string{"o"},
				Usage:   "Write results to a CSV file at the given base path",
			},
		},
		Action: r.Search,
	}
}

// linkCommand resolves a playable link for a track
func linkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "link",
		Usage: "Resolve the playable link for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.StringFlag{
				Name:  "br",
				Usage: "Requested bitrate (source-specific, e.g. 320kmp3)",
			},
		},
		Action: r.Link,
	}
}

// lyricCommand fetches lyrics for a track
func lyricCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyric",
		Usage: "Fetch lyrics for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			sourceFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the lyrics to an .lrc file",
			},
		},
		Action: r.Lyric,
	}
}

// historyCommand lists recorded searches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent searches",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Filter by catalog source",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of records to return",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// setupCommand initializes the database and config file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive search interface",
		Action: r.TUI,
	}
}
