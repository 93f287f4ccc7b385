package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/caching"
	"github.com/dtnitsch/wordfreq/pkg/parser"
)

// ErrInputUnavailable wraps every failure to retrieve source text.
var ErrInputUnavailable = errors.New("input unavailable")

// DefaultTimeout bounds a single fetch when the caller gives none.
const DefaultTimeout = 10 * time.Second

type Fetcher struct {
	client *http.Client
	cache  *caching.Cache
	parser *parser.Parser
	logger *slog.Logger
}

// NewFetcher creates a Fetcher. cache may be nil to always hit the network.
func NewFetcher(client *http.Client, cache *caching.Cache, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{
		client: client,
		cache:  cache,
		parser: &parser.Parser{},
		logger: logger,
	}
}

// FetchText downloads address and returns its readable text. HTML responses
// are reduced to their article text; anything else is returned as-is.
// Cached responses are used unless forceFetch is set.
func (f *Fetcher) FetchText(ctx context.Context, address string, timeout time.Duration, forceFetch bool) (*models.Document, error) {
	var entry *caching.Entry
	if f.cache != nil && !forceFetch {
		if cached, ok := f.cache.Get(address); ok {
			f.logger.Info("Source found in cache, using it", "url", address, "fetched_at", cached.FetchedAt, "max_age", f.cache.TTL())
			entry = cached
		}
	}

	fromCache := entry != nil
	if entry == nil {
		f.logger.Info("Fetching source from network", "url", address, "timeout", timeout)
		fetched, err := f.get(ctx, address, timeout)
		if err != nil {
			return nil, err
		}
		entry = fetched

		if f.cache != nil {
			if err := f.cache.Set(entry); err != nil {
				f.logger.Warn("Failed to cache response", "url", address, "error", err)
			}
		}
	}

	doc := &models.Document{
		Source:      address,
		ContentType: entry.ContentType,
		StatusCode:  entry.StatusCode,
		FromCache:   fromCache,
		FetchedAt:   entry.FetchedAt,
		Text:        entry.Body,
	}

	if isHTML(entry.ContentType) {
		title, text, err := f.parser.PlainText(address, entry.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from HTML: %w", err)
		}
		doc.Title = title
		doc.Text = text
	}

	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, address string, timeout time.Duration) (*caching.Entry, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", ErrInputUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to make HTTP request: %w", ErrInputUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: failed to fetch text, status code: %d", ErrInputUnavailable, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrInputUnavailable, err)
	}

	return &caching.Entry{
		URL:         address,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now(),
		Body:        string(bodyBytes),
	}, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
