package count

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/db"
	"github.com/dtnitsch/wordfreq/pkg/fetcher"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
	"github.com/dtnitsch/wordfreq/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDeps(stdin io.Reader) Deps {
	return Deps{
		Fetcher: fetcher.NewFetcher(nil, nil, discardLogger()),
		Storage: storage.NewStorage(stdin),
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestRun_File(t *testing.T) {
	path := writeTempFile(t, "the cat sat on the mat the cat ran")

	tests := []struct {
		name  string
		cfg   models.RunConfig
		want  mapreduce.Frequencies
		total int
	}{
		{
			name:  "top two",
			cfg:   models.RunConfig{File: path, TopN: 2, WorkerCount: 4},
			want:  mapreduce.Frequencies{{Word: "the", Count: 3}, {Word: "cat", Count: 2}},
			total: 9,
		},
		{
			name:  "allowlist",
			cfg:   models.RunConfig{File: path, TopN: 10, WorkerCount: 2, SearchWords: []string{"cat", "mat", "dog"}},
			want:  mapreduce.Frequencies{{Word: "cat", Count: 2}, {Word: "mat", Count: 1}},
			total: 3,
		},
		{
			name:  "stop words skipped",
			cfg:   models.RunConfig{File: path, TopN: 3, WorkerCount: 1, SkipStopwords: true},
			want:  mapreduce.Frequencies{{Word: "cat", Count: 2}, {Word: "sat", Count: 1}, {Word: "mat", Count: 1}},
			total: 5,
		},
		{
			name:  "zero top",
			cfg:   models.RunConfig{File: path, TopN: 0},
			want:  mapreduce.Frequencies{},
			total: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Run(context.Background(), discardLogger(), &tt.cfg, testDeps(nil))
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !reflect.DeepEqual(rep.Top, tt.want) {
				t.Errorf("Top = %v, want %v", rep.Top, tt.want)
			}
			if rep.Summary.TotalTokens != tt.total {
				t.Errorf("TotalTokens = %d, want %d", rep.Summary.TotalTokens, tt.total)
			}
			if rep.Source != path {
				t.Errorf("Source = %q, want %q", rep.Source, path)
			}
		})
	}
}

func TestRun_Stdin(t *testing.T) {
	cfg := &models.RunConfig{File: storage.StdinPath, TopN: 1}
	rep, err := Run(context.Background(), discardLogger(), cfg, testDeps(strings.NewReader("b a b")))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := mapreduce.Frequencies{{Word: "b", Count: 2}}
	if !reflect.DeepEqual(rep.Top, want) {
		t.Errorf("Top = %v, want %v", rep.Top, want)
	}
}

func TestRun_URL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/book.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "Alice was beginning to get very tired. Alice, Alice!")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	deps := Deps{
		Fetcher: fetcher.NewFetcher(server.Client(), nil, discardLogger()),
		Storage: storage.NewStorage(nil),
	}
	cfg := &models.RunConfig{URL: server.URL + "/book.txt", TopN: 1, Timeout: time.Second}

	rep, err := Run(context.Background(), discardLogger(), cfg, deps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := mapreduce.Frequencies{{Word: "Alice", Count: 3}}
	if !reflect.DeepEqual(rep.Top, want) {
		t.Errorf("Top = %v, want %v", rep.Top, want)
	}
}

func TestRun_Errors(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	deps := Deps{
		Fetcher: fetcher.NewFetcher(server.Client(), nil, discardLogger()),
		Storage: storage.NewStorage(nil),
	}
	missing := filepath.Join(t.TempDir(), "missing.txt")

	tests := []struct {
		name    string
		cfg     models.RunConfig
		wantErr error
	}{
		{name: "negative top", cfg: models.RunConfig{File: missing, TopN: -1}, wantErr: mapreduce.ErrInvalidArgument},
		{name: "no source", cfg: models.RunConfig{TopN: 1}, wantErr: mapreduce.ErrInvalidArgument},
		{name: "both sources", cfg: models.RunConfig{URL: server.URL, File: missing, TopN: 1}, wantErr: mapreduce.ErrInvalidArgument},
		{name: "malformed search word", cfg: models.RunConfig{File: missing, TopN: 1, SearchWords: []string{"ok", "  "}}, wantErr: mapreduce.ErrInvalidArgument},
		{name: "unknown format", cfg: models.RunConfig{File: missing, TopN: 1, Format: "xml"}, wantErr: mapreduce.ErrInvalidArgument},
		{name: "invalid url", cfg: models.RunConfig{URL: "not a url", TopN: 1}, wantErr: mapreduce.ErrInvalidArgument},
		{name: "missing file", cfg: models.RunConfig{File: missing, TopN: 1}, wantErr: fetcher.ErrInputUnavailable},
		{name: "http 404", cfg: models.RunConfig{URL: server.URL + "/gone.txt", TopN: 1}, wantErr: fetcher.ErrInputUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), discardLogger(), &tt.cfg, deps)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	defer database.Close()

	path := writeTempFile(t, "the cat sat on the mat the cat ran")
	deps := testDeps(nil)
	deps.DB = database

	rep, err := Run(context.Background(), discardLogger(), &models.RunConfig{File: path, TopN: 2, WorkerCount: 3, SearchWords: []string{"the", "cat"}}, deps)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rep.RunID == 0 {
		t.Fatal("RunID = 0, want a recorded run")
	}

	run, err := database.GetRun(rep.RunID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.SourceKind != SourceFile || run.Workers != 3 || run.TotalTokens != 5 {
		t.Errorf("run = %+v, want file kind, 3 workers, 5 tokens", run)
	}
	if want := []string{"the:3", "cat:2"}; !reflect.DeepEqual(run.TopKeywords, want) {
		t.Errorf("TopKeywords = %v, want %v", run.TopKeywords, want)
	}

	// --no-history leaves the database untouched.
	if _, err := Run(context.Background(), discardLogger(), &models.RunConfig{File: path, TopN: 2, NoHistory: true}, deps); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	runs, err := database.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("len(ListRuns()) = %d, want 1", len(runs))
	}
}

func TestSplitWords(t *testing.T) {
	tests := map[string][]string{
		"the,cat":        {"the", "cat"},
		" the , cat ,, ": {"the", "cat"},
		",":              nil,
		"":               nil,
	}
	for raw, want := range tests {
		if got := splitWords(raw); !reflect.DeepEqual(got, want) {
			t.Errorf("splitWords(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("wrapped: %w", mapreduce.ErrInvalidArgument), want: ExitInvalidArgument},
		{err: fmt.Errorf("wrapped: %w", fetcher.ErrInputUnavailable), want: ExitFailure},
		{err: &mapreduce.TaskError{Index: 0, Err: errors.New("boom")}, want: ExitFailure},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
