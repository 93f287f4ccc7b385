package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/dtnitsch/wordfreq/internal/count"
	"github.com/dtnitsch/wordfreq/internal/history"
	"github.com/dtnitsch/wordfreq/pkg/help"
	"github.com/dtnitsch/wordfreq/pkg/chart"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "db",
		Value: db.DefaultDBName,
		Usage: "Path of the run history database",
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "wordfreq",
		Usage: "Count word frequencies in a web page or text file with a parallel map/reduce pipeline",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Log debug detail for every phase"},
		},
		Commands: []*cli.Command{
			{
				Name:  "count",
				Usage: "Count the most frequent words of a source",
				UsageText: `wordfreq count --url https://www.gutenberg.org/files/11/11-0.txt --top 10
   wordfreq count --file notes.txt --words the,cat,mat --format json
   cat notes.txt | wordfreq count --file - --skip-stopwords --chart`,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "URL of the text or HTML page to count"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Local file to count ('-' reads stdin)"},
					&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Value: 10, Usage: "Number of top words to report"},
					&cli.StringFlag{Name: "words", Aliases: []string{"w"}, Usage: "Comma-separated allowlist; only these words are counted"},
					&cli.IntFlag{Name: "workers", Value: runtime.NumCPU(), Usage: "Worker pool size for the map and reduce phases"},
					&cli.DurationFlag{Name: "timeout", Value: fetcher.DefaultTimeout, Usage: "Timeout for fetching a URL"},
					&cli.StringFlag{Name: "max-age", Value: "24h", Usage: "Reuse cached URL responses younger than this"},
					&cli.BoolFlag{Name: "force-fetch", Usage: "Ignore the response cache"},
					&cli.StringFlag{Name: "cache-dir", Value: ".wordfreq-cache", Usage: "Directory of cached URL responses"},
					&cli.BoolFlag{Name: "skip-stopwords", Usage: "Drop common English stop words before counting"},
					&cli.BoolFlag{Name: "detect-language", Usage: "Detect and report the language of the source"},
					&cli.StringFlag{Name: "format", Value: "text", Usage: "Output format: text, json, or yaml"},
					&cli.BoolFlag{Name: "chart", Usage: "Draw a bar chart of the top words (text format only)"},
					&cli.IntFlag{Name: "chart-width", Value: chart.DefaultWidth, Usage: "Width of the longest chart bar"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Also save the report to this file"},
					&cli.BoolFlag{Name: "no-history", Usage: "Do not record the run in the history database"},
					dbFlag(),
				},
				Action: count.CountAction,
			},
			{
				Name:  "quickstart",
				Usage: "Print example commands and counting rules as YAML",
				Action: func(c *cli.Context) error {
					_, err := fmt.Fprint(c.App.Writer, help.QuickstartYAML)
					return err
				},
			},
			{
				Name:  "history",
				Usage: "Inspect previous runs",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List recorded runs, newest first",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum number of runs to show"},
							dbFlag(),
						},
						Action: history.ListAction,
					},
					{
						Name:      "show",
						Usage:     "Show a run and its top words (latest when no ID is given)",
						ArgsUsage: "[run-id]",
						Flags:     []cli.Flag{dbFlag()},
						Action:    history.ShowAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a recorded run",
						ArgsUsage: "<run-id>",
						Flags:     []cli.Flag{dbFlag()},
						Action:    history.DeleteAction,
					},
				},
			},
		},
	}
}
