package count

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/caching"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/dtnitsch/wordfreq/pkg/language"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Exit codes of the count command.
const (
	ExitInvalidArgument = 1
	ExitFailure         = 2
)

// NewLogger builds the JSON stderr logger shared by every command.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func CountAction(c *cli.Context) error {
	logger := NewLogger(c)

	cfg, err := configFromFlags(c)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		return cli.Exit(err.Error(), ExitInvalidArgument)
	}

	var cache *caching.Cache
	if cfg.URL != "" {
		cache, err = caching.NewCache(c.String("cache-dir"), cfg.MaxAge)
		if err != nil {
			logger.Warn("Cache unavailable, fetching without it", "error", err)
			cache = nil
		}
	}

	deps := Deps{
		Fetcher: fetcher.NewFetcher(&http.Client{}, cache, logger),
		Storage: storage.NewStorage(c.App.Reader),
	}
	if cfg.DetectLanguage {
		deps.Detector = language.NewDetector()
	}
	if !cfg.NoHistory {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			logger.Warn("History database unavailable, run will not be recorded", "path", cfg.DBPath, "error", err)
		} else {
			defer database.Close()
			deps.DB = database
		}
	}

	rep, err := Run(c.Context, logger, cfg, deps)
	if err != nil {
		logger.Error("count failed", "source", cfg.Source(), "error", err)
		return cli.Exit(err.Error(), exitCode(err))
	}

	var buf bytes.Buffer
	if err := rep.Write(&buf, cfg.Format, cfg.Chart, cfg.ChartWidth); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}
	if _, err := c.App.Writer.Write(buf.Bytes()); err != nil {
		return cli.Exit(err.Error(), ExitFailure)
	}

	if cfg.OutputPath != "" {
		if deps.Storage.HasFile(cfg.OutputPath) {
			logger.Info("Overwriting existing report", "path", cfg.OutputPath)
		}
		if err := saveReport(deps.Storage, cfg, rep.Marshal); err != nil {
			logger.Error("failed to save report", "path", cfg.OutputPath, "error", err)
			return cli.Exit(err.Error(), ExitFailure)
		}
		logger.Info("Report saved", "path", cfg.OutputPath)
	}

	return nil
}

func configFromFlags(c *cli.Context) (*models.RunConfig, error) {
	cfg := &models.RunConfig{
		URL:            strings.TrimSpace(c.String("url")),
		File:           c.String("file"),
		TopN:           c.Int("top"),
		WorkerCount:    c.Int("workers"),
		Timeout:        c.Duration("timeout"),
		ForceFetch:     c.Bool("force-fetch"),
		SkipStopwords:  c.Bool("skip-stopwords"),
		DetectLanguage: c.Bool("detect-language"),
		Format:         strings.ToLower(c.String("format")),
		Chart:          c.Bool("chart"),
		ChartWidth:     c.Int("chart-width"),
		OutputPath:     c.String("output"),
		DBPath:         c.String("db"),
		NoHistory:      c.Bool("no-history"),
	}

	if c.IsSet("words") {
		cfg.SearchWords = splitWords(c.String("words"))
		if len(cfg.SearchWords) == 0 {
			return nil, fmt.Errorf("%w: --words is set but lists no words", mapreduce.ErrInvalidArgument)
		}
	}

	if !cfg.ForceFetch {
		maxAge, err := time.ParseDuration(c.String("max-age"))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid --max-age: %v", mapreduce.ErrInvalidArgument, err)
		}
		cfg.MaxAge = maxAge
	}

	return cfg, nil
}

// splitWords splits a comma separated list, trimming blanks around entries.
func splitWords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// saveReport writes the report to cfg.OutputPath. A .json, .yaml, or .yml
// extension overrides the display format.
func saveReport(s *storage.Storage, cfg *models.RunConfig, marshal func(string) ([]byte, error)) error {
	format := cfg.Format
	switch strings.ToLower(filepath.Ext(cfg.OutputPath)) {
	case ".json":
		format = models.FormatJSON
	case ".yaml", ".yml":
		format = models.FormatYAML
	}

	data, err := marshal(format)
	if err != nil {
		return err
	}
	return s.SaveFile(cfg.OutputPath, data)
}

func exitCode(err error) int {
	if errors.Is(err, mapreduce.ErrInvalidArgument) {
		return ExitInvalidArgument
	}
	return ExitFailure
}
