// Package ledger keeps a local record of submitted jobs so the CLI can
// list, re-attach to and clean up jobs across invocations.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/me/soaplab/pkg/analysis"

	_ "modernc.org/sqlite"
)

// Record is one remembered job.
type Record struct {
	JobID    string
	Analysis string
	Access   string
	Location string
	State    analysis.JobState
	Created  time.Time
	Updated  time.Time
}

// Ledger is a SQLite-backed job record store.
type Ledger struct {
	db     *sql.DB
	logger *slog.Logger
}

// DefaultPath returns the ledger location under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".soaplab", "jobs.db"), nil
}

// Open opens (or creates) the ledger database at path. Use ":memory:" for
// an in-memory ledger in tests. The parent directory is created when
// missing.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// WAL mode keeps concurrent CLI invocations from blocking each other.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		db:     db,
		logger: logger.With("component", "ledger"),
	}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// schema contains the DDL for the ledger. Each statement uses
// IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		job_id     TEXT PRIMARY KEY,
		analysis   TEXT NOT NULL,
		access     TEXT NOT NULL DEFAULT 'soap',
		location   TEXT NOT NULL,
		state      TEXT NOT NULL DEFAULT 'CREATED',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_analysis ON jobs(analysis)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_state ON jobs(state)`,
}

// Migrate creates the required tables and indexes.
func (l *Ledger) Migrate(ctx context.Context) error {
	l.logger.Debug("sql", "op", "migrate")
	for _, stmt := range schema {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Put inserts or updates the record for rec.JobID.
func (l *Ledger) Put(ctx context.Context, rec *Record) error {
	l.logger.Debug("sql", "op", "upsert", "job", rec.JobID, "state", rec.State)

	created := rec.Created
	if created.IsZero() {
		created = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO jobs (job_id, analysis, access, location, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET state=excluded.state, updated_at=excluded.updated_at`,
		rec.JobID, rec.Analysis, rec.Access, rec.Location, string(rec.State),
		created.Format(time.RFC3339Nano), time.Now().Format(time.RFC3339Nano),
	)
	return err
}

// Get returns the record for jobID, or nil when it is not remembered.
func (l *Ledger) Get(ctx context.Context, jobID string) (*Record, error) {
	l.logger.Debug("sql", "op", "select", "job", jobID)

	rec, err := scanRecord(l.db.QueryRowContext(ctx,
		`SELECT job_id, analysis, access, location, state, created_at, updated_at
		 FROM jobs WHERE job_id = ?`, jobID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// List returns all remembered jobs, most recently updated first.
func (l *Ledger) List(ctx context.Context) ([]*Record, error) {
	l.logger.Debug("sql", "op", "list")

	rows, err := l.db.QueryContext(ctx,
		`SELECT job_id, analysis, access, location, state, created_at, updated_at
		 FROM jobs ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Delete forgets the record for jobID. Deleting an unknown job is not an
// error.
func (l *Ledger) Delete(ctx context.Context, jobID string) error {
	l.logger.Debug("sql", "op", "delete", "job", jobID)
	_, err := l.db.ExecContext(ctx, `DELETE FROM jobs WHERE job_id = ?`, jobID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var state, createdAt, updatedAt string
	if err := row.Scan(&rec.JobID, &rec.Analysis, &rec.Access, &rec.Location,
		&state, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.State = analysis.JobState(state)
	rec.Created, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.Updated, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &rec, nil
}
