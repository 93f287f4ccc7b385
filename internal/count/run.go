package count

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/wordfreq/internal/common"
	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/analytics"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/dtnitsch/wordfreq/pkg/language"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/report"
	"github.com/dtnitsch/wordfreq/pkg/storage"
)

// Source kinds recorded in the run history.
const (
	SourceURL   = "url"
	SourceFile  = "file"
	SourceStdin = "stdin"
)

// Deps are the collaborators of a count run. Detector and DB are optional.
type Deps struct {
	Fetcher  *fetcher.Fetcher
	Storage  *storage.Storage
	Detector *language.Detector
	DB       *db.DB
}

// Run loads the configured source, counts its words, and returns the report.
// Arguments are validated before any text is loaded.
func Run(ctx context.Context, logger *slog.Logger, cfg *models.RunConfig, deps Deps) (*report.Report, error) {
	startTime := time.Now()

	if err := validate(cfg); err != nil {
		return nil, err
	}

	doc, kind, err := loadDocument(ctx, logger, cfg, deps)
	if err != nil {
		return nil, err
	}
	logger.Info("Source loaded", "source", doc.Source, "kind", kind, "bytes", len(doc.Text), "from_cache", doc.FromCache)

	var opts []mapreduce.Option
	if cfg.SkipStopwords {
		opts = append(opts, mapreduce.WithExclude(analytics.IsStopword))
	}
	engine := mapreduce.NewEngine(cfg.WorkerCount, logger, opts...)

	logger.Info("Starting MapReduce phase", "workers", engine.Workers(), "search_words", len(cfg.SearchWords))
	counts, err := engine.MapReduce(ctx, doc.Text, cfg.SearchWords)
	if err != nil {
		return nil, err
	}

	top, err := mapreduce.TopN(counts, cfg.TopN)
	if err != nil {
		return nil, err
	}
	logger.Info("MapReduce phase complete", "distinct_words", len(counts), "tokens", counts.Total())

	rep := report.New(doc, counts, top, engine.Workers(), time.Since(startTime))
	rep.SearchWords = cfg.SearchWords

	if deps.Detector != nil {
		code, confidence := deps.Detector.Detect(doc.Text)
		if code != "" {
			rep.Language = &report.Language{Code: code, Confidence: confidence}
		}
		logger.Info("Language detected", "language", code, "confidence", confidence)
	}

	if deps.DB != nil && !cfg.NoHistory {
		run := &db.Run{
			Source:        doc.Source,
			SourceKind:    kind,
			Title:         doc.Title,
			ContentHash:   common.ContentHash([]byte(doc.Text)),
			SearchWords:   cfg.SearchWords,
			TopN:          cfg.TopN,
			Workers:       engine.Workers(),
			TotalTokens:   rep.Summary.TotalTokens,
			DistinctWords: rep.Summary.DistinctWords,
			Duration:      time.Since(startTime),
		}
		if rep.Language != nil {
			run.Language = rep.Language.Code
			run.LanguageConfidence = rep.Language.Confidence
		}

		if runID, err := deps.DB.InsertRun(run, top); err != nil {
			logger.Warn("Failed to record run in history", "source", doc.Source, "error", err)
		} else {
			rep.RunID = runID
		}
	}

	rep.DurationMS = time.Since(startTime).Milliseconds()
	return rep, nil
}

func validate(cfg *models.RunConfig) error {
	if cfg.TopN < 0 {
		return fmt.Errorf("%w: --top must be non-negative, got %d", mapreduce.ErrInvalidArgument, cfg.TopN)
	}
	if (cfg.URL == "") == (cfg.File == "") {
		return fmt.Errorf("%w: exactly one of --url or --file is required", mapreduce.ErrInvalidArgument)
	}
	if _, err := mapreduce.NewAllowlist(cfg.SearchWords); err != nil {
		return err
	}

	switch strings.ToLower(cfg.Format) {
	case "", models.FormatText, models.FormatJSON, models.FormatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q (want text, json, or yaml)", mapreduce.ErrInvalidArgument, cfg.Format)
	}

	return nil
}

func loadDocument(ctx context.Context, logger *slog.Logger, cfg *models.RunConfig, deps Deps) (*models.Document, string, error) {
	if cfg.URL != "" {
		address, err := common.SanitizeAndValidateURL(cfg.URL)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", mapreduce.ErrInvalidArgument, err)
		}
		if address != cfg.URL {
			logger.Info("URL was auto-cleaned", "original", cfg.URL, "url", address)
		}

		doc, err := deps.Fetcher.FetchText(ctx, address, cfg.Timeout, cfg.ForceFetch)
		if err != nil {
			return nil, "", err
		}
		return doc, SourceURL, nil
	}

	kind := SourceFile
	if cfg.File == storage.StdinPath {
		kind = SourceStdin
	} else {
		stats, err := deps.Storage.GetFileStats(cfg.File)
		if err != nil {
			return nil, "", errors.Join(fetcher.ErrInputUnavailable, err)
		}
		logger.Debug("Reading local file", "path", cfg.File, "size_bytes", stats.SizeBytes, "modified", stats.ModTime)
	}

	data, err := deps.Storage.ReadFile(cfg.File)
	if err != nil {
		return nil, "", errors.Join(fetcher.ErrInputUnavailable, err)
	}

	return &models.Document{
		Source:    cfg.File,
		FetchedAt: time.Now(),
		Text:      string(data),
	}, kind, nil
}
