package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded count of a source.
type Run struct {
	RunID              int64
	Source             string
	SourceKind         string
	Title              string
	ContentHash        string
	Language           string
	LanguageConfidence float64
	SearchWords        []string
	TopN               int
	Workers            int
	TotalTokens        int
	DistinctWords      int
	Duration           time.Duration
	TopKeywords        []string
	CreatedAt          time.Time
}

// InsertRun stores a run and its ranked words in one transaction and
// returns the new run_id.
func (db *DB) InsertRun(run *Run, top mapreduce.Frequencies) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	keywords, err := json.Marshal(mapreduce.TopKeywords(top, len(top)))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal top keywords: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // No-op after commit

	result, err := tx.Exec(`
		INSERT INTO runs (source, source_kind, title, content_hash, language, language_confidence,
		                  search_words, top_n, workers, total_tokens, distinct_words, duration_ms,
		                  top_keywords, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Source, run.SourceKind, NewNullString(run.Title), run.ContentHash,
		NewNullString(run.Language), NewNullFloat64(run.LanguageConfidence),
		NewNullString(strings.Join(run.SearchWords, ",")), run.TopN, run.Workers,
		run.TotalTokens, run.DistinctWords, run.Duration.Milliseconds(),
		string(keywords), run.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO run_words (run_id, rank, word, count) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare word insert: %w", err)
	}
	defer stmt.Close()

	for i, wc := range top {
		if _, err := stmt.Exec(runID, i+1, wc.Word, wc.Count); err != nil {
			return 0, fmt.Errorf("failed to insert word %q: %w", wc.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	run.RunID = runID
	run.TopKeywords = mapreduce.TopKeywords(top, len(top))
	return runID, nil
}

const runColumns = `
	run_id, source, source_kind, title, content_hash, language, language_confidence,
	search_words, top_n, workers, total_tokens, distinct_words, duration_ms,
	top_keywords, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r            Run
		title        sql.NullString
		language     sql.NullString
		confidence   sql.NullFloat64
		searchWords  sql.NullString
		topKeywords  sql.NullString
		durationMsec int64
	)

	err := row.Scan(&r.RunID, &r.Source, &r.SourceKind, &title, &r.ContentHash, &language,
		&confidence, &searchWords, &r.TopN, &r.Workers, &r.TotalTokens, &r.DistinctWords,
		&durationMsec, &topKeywords, &r.CreatedAt)
	if err != nil {
		return nil, err
	}

	r.Title = title.String
	r.Language = language.String
	r.LanguageConfidence = confidence.Float64
	r.Duration = time.Duration(durationMsec) * time.Millisecond
	if searchWords.Valid && searchWords.String != "" {
		r.SearchWords = strings.Split(searchWords.String, ",")
	}
	r.TopKeywords = []string{}
	if topKeywords.Valid && topKeywords.String != "" {
		if err := json.Unmarshal([]byte(topKeywords.String), &r.TopKeywords); err != nil {
			return nil, fmt.Errorf("failed to decode top keywords: %w", err)
		}
	}

	return &r, nil
}

// GetRun retrieves a run by ID.
func (db *DB) GetRun(runID int64) (*Run, error) {
	row := db.QueryRow("SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves runs ordered by most recent first.
// A non-positive limit returns every run.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, run_id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRunWords returns the ranked words of a run, most frequent first.
func (db *DB) GetRunWords(runID int64) (mapreduce.Frequencies, error) {
	rows, err := db.Query("SELECT word, count FROM run_words WHERE run_id = ? ORDER BY rank", runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run words: %w", err)
	}
	defer rows.Close()

	words := mapreduce.Frequencies{}
	for rows.Next() {
		var wc mapreduce.WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan run word: %w", err)
		}
		words = append(words, wc)
	}

	return words, rows.Err()
}

// DeleteRun removes a run and its words.
func (db *DB) DeleteRun(runID int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is a per-connection pragma, so words are removed explicitly.
	if _, err := tx.Exec("DELETE FROM run_words WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("failed to delete run words: %w", err)
	}

	result, err := tx.Exec("DELETE FROM runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	return tx.Commit()
}
