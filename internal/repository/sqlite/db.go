package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) a SQLite database using the configured URL.
// Supported formats:
//   - sqlite3:./trends.db
//   - sqlite:./trends.db
//   - file:./trends.db
func Open(databaseURL string) (*sql.DB, error) {
	dsn := normalizeDSN(databaseURL)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite works best with a single writer connection for WAL
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetMaxIdleConns(1)

	if err := configurePragmas(db); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	return db, nil
}

func normalizeDSN(databaseURL string) string {
	dsn := strings.TrimSpace(databaseURL)
	if dsn == "" {
		dsn = "./trends.db"
	}

	if idx := strings.Index(dsn, ":"); idx != -1 {
		prefix := dsn[:idx]
		if prefix == "sqlite3" || prefix == "sqlite" {
			dsn = dsn[idx+1:]
		}
	}

	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "./trends.db"
	}

	if !strings.HasPrefix(dsn, "file:") {
		if !strings.Contains(dsn, ":/") && !strings.HasPrefix(dsn, "./") && !strings.HasPrefix(dsn, "/") {
			dsn = "./" + dsn
		}
		dsn = "file:" + filepath.Clean(dsn)
	}

	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(5000)"
	}

	return dsn
}

func configurePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("configure sqlite pragma (%s): %w", pragma, err)
		}
	}
	return nil
}

func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS keywords (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS videos (
			id TEXT PRIMARY KEY,
			external_video_id TEXT NOT NULL UNIQUE,
			keyword_id TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT,
			channel TEXT,
			view_count INTEGER NOT NULL DEFAULT 0,
			like_count INTEGER,
			duration TEXT,
			thumbnail TEXT,
			published_at TIMESTAMP,
			collected_at TIMESTAMP NOT NULL,
			FOREIGN KEY(keyword_id) REFERENCES keywords(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_videos_keyword_collected ON videos(keyword_id, collected_at);`,
		`CREATE TABLE IF NOT EXISTS trend_aggregates (
			id TEXT PRIMARY KEY,
			keyword_id TEXT NOT NULL,
			date TEXT NOT NULL,
			period TEXT NOT NULL,
			video_count INTEGER NOT NULL,
			total_views INTEGER NOT NULL,
			avg_views INTEGER NOT NULL,
			top_video_id TEXT,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(keyword_id, date, period),
			FOREIGN KEY(keyword_id) REFERENCES keywords(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS collection_runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			keyword_count INTEGER NOT NULL,
			video_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// dayKey is the stored form of an aggregate's date column. Dates are kept
// as plain YYYY-MM-DD text so the composite unique key is stable across
// timezone serialization.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseDayKey(s string, loc *time.Location) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
