// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles Tidal authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Tidal authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate with Tidal using OAuth2",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "timeout",
						Usage: "Seconds to wait for the browser callback",
						Value: 120,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check current authentication state",
				Action: r.AuthStatus,
			},
		},
	}
}

// harvestCommand fetches review page text from configured sources
func harvestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "harvest",
		Usage: "Fetch review pages from configured sources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (defaults to storage.harvest_path)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print harvested pages as JSON",
			},
		},
		Action: r.Harvest,
	}
}

// analyzeCommand runs harvested pages through the AI analyst
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Extract album candidates from harvested pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Usage: "Harvested pages file (defaults to storage.harvest_path)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Candidates file path (defaults to storage.candidates_path)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print candidates as JSON",
			},
		},
		Action: r.Analyze,
	}
}

// discoverCommand asks the analyst model for new harvest sources
func discoverCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "Suggest new harvest sources based on the configured list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Suggestions file path (defaults to storage.suggestions_path)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print suggestions as JSON",
			},
		},
		Action: r.Discover,
	}
}

// curateCommand handles the main curation pass
func curateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "curate",
		Usage: "Act on analyzed candidates",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Resolve candidates against Tidal and favorite or collect them",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "input",
						Usage: "Candidates file (defaults to storage.candidates_path)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the run result as JSON",
					},
				},
				Action: r.CurateRun,
			},
		},
	}
}

// reconcileCommand drains the staged command queues
func reconcileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Apply staged remove/promote commands and drain the queues",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the reconcile result as JSON",
			},
		},
		Action: r.Reconcile,
	}
}

// reportCommand renders run history
func reportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show outcomes from past runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "run",
				Usage: "Run ID to report on (defaults to the latest run)",
			},
			&cli.IntFlag{
				Name:  "list",
				Usage: "List the N most recent runs instead",
			},
			&cli.StringFlag{
				Name:  "markdown",
				Usage: "Write a markdown report to this path",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "With --json, write the report to this path instead of stdout",
			},
		},
		Action: r.Report,
	}
}

// reviewCommand launches the interactive ledger review TUI
func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "review",
		Aliases: []string{"ui"},
		Usage:   "Review processed albums and stage corrections",
		Action:  r.Review,
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
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
			{
				Name:  "database",
				Usage: "Initialize the run history database",
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
		},
	}
}
