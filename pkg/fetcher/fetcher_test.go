package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/wordfreq/pkg/caching"
)

func newTestServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/plain.txt", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "the cat sat on the mat")
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Cats</title></head><body><p>the cat sat on the mat</p></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchText(t *testing.T) {
	var hits atomic.Int32
	server := newTestServer(t, &hits)
	f := NewFetcher(server.Client(), nil, nil)

	tests := []struct {
		name      string
		path      string
		wantText  string
		wantTitle string
		wantErr   bool
	}{
		{
			name:     "plain text is returned as-is",
			path:     "/plain.txt",
			wantText: "the cat sat on the mat",
		},
		{
			name:      "html is reduced to text",
			path:      "/page.html",
			wantText:  "the cat sat on the mat",
			wantTitle: "Cats",
		},
		{
			name:    "http error status",
			path:    "/missing",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.FetchText(context.Background(), server.URL+tt.path, time.Second, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FetchText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInputUnavailable) {
					t.Errorf("FetchText() error = %v, want ErrInputUnavailable", err)
				}
				return
			}
			if strings.TrimSpace(doc.Text) != tt.wantText {
				t.Errorf("doc.Text = %q, want %q", doc.Text, tt.wantText)
			}
			if tt.wantTitle != "" && doc.Title != tt.wantTitle {
				t.Errorf("doc.Title = %q, want %q", doc.Title, tt.wantTitle)
			}
			if doc.StatusCode != http.StatusOK {
				t.Errorf("doc.StatusCode = %d, want 200", doc.StatusCode)
			}
		})
	}
}

func TestFetchText_Timeout(t *testing.T) {
	var hits atomic.Int32
	server := newTestServer(t, &hits)
	f := NewFetcher(server.Client(), nil, nil)

	_, err := f.FetchText(context.Background(), server.URL+"/slow", 50*time.Millisecond, false)
	if !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("FetchText() error = %v, want ErrInputUnavailable", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("FetchText() error = %v, want deadline exceeded", err)
	}
}

func TestFetchText_UnreachableHost(t *testing.T) {
	f := NewFetcher(nil, nil, nil)
	_, err := f.FetchText(context.Background(), "http://127.0.0.1:1/none", time.Second, false)
	if !errors.Is(err, ErrInputUnavailable) {
		t.Errorf("FetchText() error = %v, want ErrInputUnavailable", err)
	}
}

func TestFetchText_UsesCache(t *testing.T) {
	var hits atomic.Int32
	server := newTestServer(t, &hits)

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	f := NewFetcher(server.Client(), cache, nil)
	address := server.URL + "/plain.txt"

	first, err := f.FetchText(context.Background(), address, time.Second, false)
	if err != nil {
		t.Fatalf("first FetchText() error = %v", err)
	}
	if first.FromCache {
		t.Error("first fetch reported FromCache")
	}

	second, err := f.FetchText(context.Background(), address, time.Second, false)
	if err != nil {
		t.Fatalf("second FetchText() error = %v", err)
	}
	if !second.FromCache {
		t.Error("second fetch did not use the cache")
	}
	if second.Text != first.Text {
		t.Errorf("cached text = %q, want %q", second.Text, first.Text)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	if _, err := f.FetchText(context.Background(), address, time.Second, true); err != nil {
		t.Fatalf("forced FetchText() error = %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Errorf("server hits after force = %d, want 2", got)
	}
}

func TestIsHTML(t *testing.T) {
	tests := map[string]bool{
		"text/html":                 true,
		"text/html; charset=utf-8":  true,
		"application/xhtml+xml":     true,
		"text/plain; charset=utf-8": false,
		"":                          false,
	}
	for contentType, want := range tests {
		if got := isHTML(contentType); got != want {
			t.Errorf("isHTML(%q) = %v, want %v", contentType, got, want)
		}
	}
}
