package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"hornetflow/internal/config"
)

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded workflow execution.
type Run struct {
	ID           string
	Trigger      string
	MetadataPath string
	RepoURL      string
	RepoCommit   string
	RepoPath     string
	Plugin       string
	Status       string
	ErrorMessage string
	Succeeded    int
	Total        int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Open initializes or connects to the journal database and applies
// migrations. The database lives at cfg.Journal.Path.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.Journal.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Record inserts one completed run.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (
            id, trigger_source, metadata_path, repo_url, repo_commit, repo_path,
            plugin, status, error_message, succeeded, total, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Trigger,
		nullableString(run.MetadataPath),
		nullableString(run.RepoURL),
		nullableString(run.RepoCommit),
		nullableString(run.RepoPath),
		run.Plugin,
		run.Status,
		nullableString(run.ErrorMessage),
		run.Succeeded,
		run.Total,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, trigger_source, metadata_path, repo_url, repo_commit, repo_path,
            plugin, status, error_message, succeeded, total, started_at, finished_at
        FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                                           Run
		metadataPath, repoURL, repoCommit             sql.NullString
		repoPath, errorMessage, startedAt, finishedAt sql.NullString
	)
	err := rows.Scan(
		&run.ID, &run.Trigger, &metadataPath, &repoURL, &repoCommit, &repoPath,
		&run.Plugin, &run.Status, &errorMessage, &run.Succeeded, &run.Total,
		&startedAt, &finishedAt,
	)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.MetadataPath = metadataPath.String
	run.RepoURL = repoURL.String
	run.RepoCommit = repoCommit.String
	run.RepoPath = repoPath.String
	run.ErrorMessage = errorMessage.String
	run.StartedAt = parseTimestamp(startedAt.String)
	run.FinishedAt = parseTimestamp(finishedAt.String)
	return run, nil
}

func parseTimestamp(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
