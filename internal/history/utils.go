package history

import (
	"fmt"
	"strconv"

	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/urfave/cli/v2"
)

// RunIDOrLatest returns the run ID from args, or the latest run if not provided
func RunIDOrLatest(c *cli.Context, database *db.DB) (int64, error) {
	if c.NArg() == 0 {
		runs, err := database.ListRuns(1)
		if err != nil {
			return 0, fmt.Errorf("failed to get latest run: %w", err)
		}
		if len(runs) == 0 {
			return 0, fmt.Errorf("no runs found. Run 'wordfreq count --url \"...\"' first")
		}
		return runs[0].RunID, nil
	}

	runID, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || runID <= 0 {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
