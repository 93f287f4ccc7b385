package caching

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Entry is a cached HTTP response body with the metadata needed to reuse it.
type Entry struct {
	URL         string    `yaml:"url"`
	ContentType string    `yaml:"content_type"`
	StatusCode  int       `yaml:"status_code"`
	FetchedAt   time.Time `yaml:"fetched_at"`
	Body        string    `yaml:"body"`
}

// Cache provides a simple file-based cache with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// TTL returns how long entries stay fresh. Zero disables reads.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// key generates a SHA256 hash of the URL to use as a filename.
func (c *Cache) key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x.yaml", hash)
}

// Get retrieves an entry from the cache.
// It returns the entry and true if it is found and not expired.
func (c *Cache) Get(url string) (*Entry, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(c.path, c.key(url)))
	if err != nil {
		return nil, false // Cache miss
	}

	var entry Entry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return nil, false // Corrupt entry
	}
	if entry.URL != url || time.Since(entry.FetchedAt) > c.ttl {
		return nil, false // Expired
	}

	return &entry, true
}

// Set adds an entry to the cache, stamping FetchedAt when it is unset.
func (c *Cache) Set(entry *Entry) error {
	if entry == nil || entry.URL == "" {
		return errors.New("cache entry requires a URL")
	}
	if entry.FetchedAt.IsZero() {
		entry.FetchedAt = time.Now()
	}

	data, err := yaml.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	filePath := filepath.Join(c.path, c.key(entry.URL))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
