package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
	"github.com/dtnitsch/wordfreq/pkg/chart"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"gopkg.in/yaml.v3"
)

// Report is the result of counting one source.
// It gives a lightweight overview of the source and its most frequent words.
type Report struct {
	RunID       int64                 `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Source      string                `json:"source" yaml:"source"`
	Title       string                `json:"title,omitempty" yaml:"title,omitempty"`
	FromCache   bool                  `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
	GeneratedAt string                `json:"generated_at" yaml:"generated_at"`
	Language    *Language             `json:"language,omitempty" yaml:"language,omitempty"`
	SearchWords []string              `json:"search_words,omitempty" yaml:"search_words,omitempty"`
	Workers     int                   `json:"workers" yaml:"workers"`
	Summary     analytics.Summary     `json:"summary" yaml:"summary"`
	Top         mapreduce.Frequencies `json:"top" yaml:"top"`
	Keywords    []string              `json:"keywords" yaml:"keywords"`
	DurationMS  int64                 `json:"duration_ms" yaml:"duration_ms"`
}

// Language is the detected language of the source.
type Language struct {
	Code       string  `json:"code" yaml:"code"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// New builds a report from a document and its ranked words.
func New(doc *models.Document, counts, top mapreduce.Frequencies, workers int, elapsed time.Duration) *Report {
	return &Report{
		Source:      doc.Source,
		Title:       doc.Title,
		FromCache:   doc.FromCache,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Workers:     workers,
		Summary:     analytics.Summarize(counts),
		Top:         top,
		Keywords:    mapreduce.TopKeywords(top, len(top)),
		DurationMS:  elapsed.Milliseconds(),
	}
}

// Marshal encodes the report in the given format (json or yaml).
func (r *Report) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case models.FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshalling report: %w", err)
		}
		return append(data, '\n'), nil
	case models.FormatYAML:
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("error marshalling report: %w", err)
		}
		return data, nil
	case models.FormatText, "":
		return []byte(r.text()), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want text, json, or yaml)", format)
	}
}

// Write encodes the report to w, followed by a bar chart of the top words
// when withChart is set and the format is text.
func (r *Report) Write(w io.Writer, format string, withChart bool, chartWidth int) error {
	format = strings.ToLower(format)
	data, err := r.Marshal(format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	if !withChart || (format != models.FormatText && format != "") || len(r.Top) == 0 {
		return nil
	}

	labels, values := r.Top.Labels()
	fmt.Fprintln(w)
	return chart.Render(w, "Word frequencies", labels, values, chartWidth)
}

func (r *Report) text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Source: %s\n", r.Source)
	if r.Title != "" {
		fmt.Fprintf(&sb, "Title: %s\n", r.Title)
	}
	if r.Language != nil {
		fmt.Fprintf(&sb, "Language: %s (%.2f)\n", r.Language.Code, r.Language.Confidence)
	}
	if len(r.SearchWords) > 0 {
		fmt.Fprintf(&sb, "Search words: %s\n", strings.Join(r.SearchWords, ", "))
	}
	fmt.Fprintf(&sb, "Tokens: %d  Distinct: %d  Hapax: %d  Diversity: %.3f\n",
		r.Summary.TotalTokens, r.Summary.DistinctWords, r.Summary.HapaxLegomena, r.Summary.LexicalDiversity)
	if r.RunID > 0 {
		fmt.Fprintf(&sb, "Run: #%d\n", r.RunID)
	}

	fmt.Fprintf(&sb, "\n--- Top %d Words ---\n", len(r.Top))
	sb.WriteString(mapreduce.FormatTopKeywords(r.Top))

	return sb.String()
}
