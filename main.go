package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	dbcmd "github.com/daringdolphin/curate/internal/db"
	"github.com/daringdolphin/curate/internal/process"
	"github.com/daringdolphin/curate/internal/scan"
	"github.com/daringdolphin/curate/internal/selection"
)

func main() {
	app := &cli.App{
		Name:  "curate",
		Usage: "assemble token-budgeted document bundles from remote folders",
		Commands: []*cli.Command{
			{
				Name:      "scan",
				Usage:     "walk a folder tree and discover eligible documents",
				ArgsUsage: "<folder-id>",
				Action:    scan.ScanAction,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:    "token",
						Usage:   "OAuth access token for the folder API",
						EnvVars: []string{"DRIVE_ACCESS_TOKEN"},
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				),
			},
			{
				Name:   "process",
				Usage:  "extract and tokenize a session's documents",
				Action: process.ProcessAction,
				Flags: append(commonFlags(),
					&cli.StringFlag{
						Name:    "token",
						Usage:   "OAuth access token for the folder API",
						EnvVars: []string{"DRIVE_ACCESS_TOKEN"},
					},
					&cli.Int64Flag{
						Name:  "session",
						Usage: "session to process (default: latest)",
					},
					&cli.StringFlag{
						Name:  "ids",
						Usage: "comma-separated document ids to process",
					},
					&cli.BoolFlag{
						Name:  "failed-only",
						Usage: "retry only documents whose last attempt failed",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "reprocess every document in the session",
					},
					&cli.BoolFlag{
						Name:  "stdin",
						Usage: "read descriptor NDJSON from stdin (pipe from scan)",
					},
					&cli.BoolFlag{
						Name:  "include-content",
						Usage: "carry extracted text on the result stream",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "documents in flight per batch",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
				),
			},
			{
				Name:      "select",
				Usage:     "admit documents into the bundle selection",
				ArgsUsage: "<document-id>...",
				Action:    selection.SelectAction,
				Flags: append(commonFlags(),
					&cli.Int64Flag{
						Name:  "session",
						Usage: "session to select in (default: latest)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "greedily select every selectable document",
					},
				),
			},
			{
				Name:      "deselect",
				Usage:     "remove documents from the bundle selection",
				ArgsUsage: "<document-id>...",
				Action:    selection.DeselectAction,
				Flags: append(commonFlags(),
					&cli.Int64Flag{
						Name:  "session",
						Usage: "session to deselect in (default: latest)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "clear the entire selection",
					},
				),
			},
			{
				Name:   "bundle",
				Usage:  "write the selected documents as a prompt bundle",
				Action: selection.BundleAction,
				Flags: append(commonFlags(),
					&cli.Int64Flag{
						Name:  "session",
						Usage: "session to bundle (default: latest)",
					},
					&cli.StringFlag{
						Name:  "instructions",
						Usage: "custom instructions appended to the bundle",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write the bundle to a file instead of stdout",
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "also write a YAML manifest to this path",
					},
				),
			},
			{
				Name:   "sessions",
				Usage:  "list scan sessions",
				Action: dbcmd.SessionsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the session database",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum sessions to show",
						Value: 20,
					},
				},
			},
			{
				Name:      "session",
				Usage:     "show one session's documents and results",
				ArgsUsage: "[session-id]",
				Action:    dbcmd.SessionAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "db",
						Usage: "path to the session database",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every command that touches config or the store.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "path to a YAML config file",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "path to the session database",
		},
		&cli.IntFlag{
			Name:  "soft-cap",
			Usage: "advisory token budget",
		},
		&cli.IntFlag{
			Name:  "hard-cap",
			Usage: "strict token budget",
		},
	}
}
