// Package history persists dispatch outcomes in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/autobuilder/internal/build"
	abErrors "git.home.luguber.info/inful/autobuilder/internal/errors"
)

// Store records outcomes and lists them back, newest first.
type Store interface {
	HandleOutcome(ctx context.Context, outcome build.Outcome) error
	List(ctx context.Context, filter Filter) ([]build.Outcome, error)
	Close() error
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	PlatformLabel string
	Limit         int
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the history database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, abErrors.StorageError("create directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, abErrors.StorageError("open", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, abErrors.StorageError("initialize schema", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS outcomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dispatch_id TEXT NOT NULL UNIQUE,
		platform_label TEXT NOT NULL,
		platform TEXT NOT NULL,
		target TEXT NOT NULL,
		result TEXT NOT NULL,
		succeeded INTEGER NOT NULL,
		total_size_bytes INTEGER NOT NULL,
		output_path TEXT NOT NULL,
		scenes INTEGER NOT NULL,
		version TEXT NOT NULL,
		commit_hash TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_platform ON outcomes(platform_label);
	CREATE INDEX IF NOT EXISTS idx_outcomes_started ON outcomes(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// HandleOutcome appends an outcome. It implements build.OutcomeSink.
func (s *SQLiteStore) HandleOutcome(ctx context.Context, o build.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	succeeded := 0
	if o.Succeeded {
		succeeded = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO outcomes (dispatch_id, platform_label, platform, target, result, succeeded,
			total_size_bytes, output_path, scenes, version, commit_hash, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.DispatchID, o.PlatformLabel, o.Platform, string(o.Target), o.Result.String(), succeeded,
		o.TotalSizeBytes, o.OutputPath, o.Scenes, o.Version, o.Commit,
		o.StartedAt.UnixMilli(), o.Duration.Milliseconds(),
	)
	if err != nil {
		return abErrors.StorageError("insert outcome", err)
	}
	return nil
}

// List returns recorded outcomes, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]build.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT dispatch_id, platform_label, platform, target, result, succeeded,
		total_size_bytes, output_path, scenes, version, commit_hash, started_at, duration_ms
		FROM outcomes`
	var args []any
	if filter.PlatformLabel != "" {
		query += " WHERE platform_label = ? COLLATE NOCASE"
		args = append(args, filter.PlatformLabel)
	}
	query += " ORDER BY started_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, abErrors.StorageError("query outcomes", err)
	}
	defer rows.Close()

	var outcomes []build.Outcome
	for rows.Next() {
		var (
			o                   build.Outcome
			target, result      string
			succeeded           int
			startedMS, duration int64
		)
		if err := rows.Scan(&o.DispatchID, &o.PlatformLabel, &o.Platform, &target, &result, &succeeded,
			&o.TotalSizeBytes, &o.OutputPath, &o.Scenes, &o.Version, &o.Commit, &startedMS, &duration); err != nil {
			return nil, abErrors.StorageError("scan outcome", err)
		}
		o.Target = build.Target(target)
		o.Result = build.ParseResult(result)
		o.Succeeded = succeeded != 0
		o.StartedAt = time.UnixMilli(startedMS)
		o.Duration = time.Duration(duration) * time.Millisecond
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return outcomes, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
