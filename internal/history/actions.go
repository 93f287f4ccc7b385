package history

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/urfave/cli/v2"
)

func ListAction(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	w := c.App.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-6s %-8s %-8s %-8s %-40s\n",
		"ID", "Created", "Kind", "Tokens", "Distinct", "Workers", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(w, "%-6d %-20s %-6s %-8d %-8d %-8d %-40s\n",
			r.RunID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.SourceKind,
			r.TotalTokens,
			r.DistinctWords,
			r.Workers,
			r.Source,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(w, "\nTip: Use 'wordfreq history show <id>' to see details\n")

	return nil
}

func ShowAction(c *cli.Context) error {
	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := RunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return err
	}

	words, err := database.GetRunWords(runID)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Run %d\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Created:     %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Source:      %s (%s)\n", run.Source, run.SourceKind)
	if run.Title != "" {
		fmt.Fprintf(w, "Title:       %s\n", run.Title)
	}
	if run.Language != "" {
		fmt.Fprintf(w, "Language:    %s (%.2f)\n", run.Language, run.LanguageConfidence)
	}
	if len(run.SearchWords) > 0 {
		fmt.Fprintf(w, "Words:       %s\n", strings.Join(run.SearchWords, ", "))
	}
	fmt.Fprintf(w, "Tokens:      %d total, %d distinct\n", run.TotalTokens, run.DistinctWords)
	fmt.Fprintf(w, "Workers:     %d\n", run.Workers)
	fmt.Fprintf(w, "Duration:    %s\n", run.Duration)
	fmt.Fprintf(w, "Hash:        %s\n", run.ContentHash)

	fmt.Fprintf(w, "\nTop %d words:\n", len(words))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprint(w, mapreduce.FormatTopKeywords(words))

	return nil
}

func DeleteAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("run ID is required")
	}

	database, err := db.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := RunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	if err := database.DeleteRun(runID); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Deleted run %d\n", runID)
	return nil
}
