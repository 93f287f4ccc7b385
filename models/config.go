// Package models defines data structures shared by the CLI actions and packages.
package models

import "time"

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunConfig holds runtime configuration for a count run.
// All values come from CLI flags, not external config files.
type RunConfig struct {
	URL            string
	File           string
	TopN           int
	SearchWords    []string
	WorkerCount    int
	Timeout        time.Duration
	MaxAge         time.Duration
	ForceFetch     bool
	SkipStopwords  bool
	DetectLanguage bool
	Format         string
	Chart          bool
	ChartWidth     int
	OutputPath     string
	DBPath         string
	NoHistory      bool
}

// Source returns the address or path the run reads from.
func (c *RunConfig) Source() string {
	if c.URL != "" {
		return c.URL
	}
	return c.File
}
