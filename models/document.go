package models

import "time"

// Document is text loaded from a URL or a local file, ready for counting.
type Document struct {
	Source      string    `json:"source" yaml:"source"`
	Title       string    `json:"title,omitempty" yaml:"title,omitempty"`
	ContentType string    `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	StatusCode  int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	FromCache   bool      `json:"from_cache,omitempty" yaml:"from_cache,omitempty"`
	FetchedAt   time.Time `json:"fetched_at" yaml:"fetched_at"`
	Text        string    `json:"-" yaml:"-"`
}
