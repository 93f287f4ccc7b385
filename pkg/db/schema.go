package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Runs table: one row per counted source
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    source_kind TEXT NOT NULL,          -- url, file, stdin
    title TEXT,
    content_hash TEXT NOT NULL,         -- SHA256 of the counted text
    language TEXT,                      -- ISO-639-1, NULL when not detected
    language_confidence REAL,
    search_words TEXT,                  -- comma-separated allowlist, NULL for all words
    top_n INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    total_tokens INTEGER NOT NULL,
    distinct_words INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,

    -- Top keywords as JSON array: ["word1:count1", "word2:count2", ...]
    top_keywords TEXT,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(content_hash);

-- Ranked words of a run, rank 1 is the most frequent
CREATE TABLE IF NOT EXISTS run_words (
    run_id INTEGER NOT NULL,
    rank INTEGER NOT NULL,
    word TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (run_id, rank),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_words_word ON run_words(word);
`
