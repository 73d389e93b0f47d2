package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"dashsync/internal/version"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:    "dashsync",
		Usage:   "keep browser dashboards in sync with webhook statistics",
		Version: version.String(),
		Description: `dashsync serves a live dashboard: it polls the statistics endpoint,
redraws the activity and device charts, pulses updated counters and pushes
every change to connected browsers over a websocket.`,
		Flags:  serveFlags(),
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server and dashboard synchronizer",
				Flags:  serveFlags(),
				Action: runServe,
			},
			copyCommand(),
			{
				Name:  "version",
				Usage: "print build metadata",
				Action: func(ctx *cli.Context) error {
					info := version.Current()
					fmt.Fprintf(ctx.App.Writer, "dashsync %s (commit %s, built %s, %s)\n",
						info.Version, orDash(info.Commit), orDash(info.Date), info.Go)
					return nil
				},
			},
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
