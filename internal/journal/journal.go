// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal records batch runs and their per-row resolutions in a
// SQLite database so that past runs can be inspected and exported.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/site-resolver/pkg/types"
)

// ErrRunNotFound is returned when a run ID has no journal entry.
var ErrRunNotFound = errors.New("run not found")

// timeLayout is fixed-width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Journal wraps the run database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			status TEXT NOT NULL,
			processed INTEGER NOT NULL DEFAULT 0,
			matched INTEGER NOT NULL DEFAULT 0,
			unmatched INTEGER NOT NULL DEFAULT 0,
			saves INTEGER NOT NULL DEFAULT 0,
			save_failures INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS resolutions (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			row_index INTEGER NOT NULL,
			name TEXT NOT NULL,
			query TEXT,
			candidates TEXT,
			url TEXT,
			status TEXT NOT NULL,
			search_ns INTEGER,
			verify_ns INTEGER,
			search_error TEXT,
			PRIMARY KEY (run_id, row_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resolutions_status ON resolutions(status)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is an open journal entry for one batch run.
type Run struct {
	ID      string
	journal *Journal
}

// BeginRun inserts a running entry and returns a handle for recording rows.
func (j *Journal) BeginRun(ctx context.Context, input, output string) (*Run, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, input, output, started_at, status) VALUES (?, ?, ?, ?, ?)`,
		id, input, output, time.Now().UTC().Format(timeLayout), string(types.RunRunning),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return &Run{ID: id, journal: j}, nil
}

// Record stores the resolution of row index. Recording the same index twice
// replaces the earlier entry.
func (r *Run) Record(ctx context.Context, index int, row types.Row, res types.Resolution) error {
	candidates, err := json.Marshal(res.Candidates)
	if err != nil {
		return fmt.Errorf("marshaling candidates: %w", err)
	}

	_, err = r.journal.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO resolutions
			(run_id, row_index, name, query, candidates, url, status, search_ns, verify_ns, search_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, index, row.Name, res.Query, string(candidates), res.URL, string(res.Status),
		int64(res.SearchDuration), int64(res.VerifyDuration), res.SearchError,
	)
	if err != nil {
		return fmt.Errorf("recording row %d: %w", index, err)
	}
	return nil
}

// Finish stamps the run with its terminal status and counters.
func (r *Run) Finish(ctx context.Context, status types.RunStatus, s types.RunSummary) error {
	_, err := r.journal.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, processed = ?, matched = ?,
			unmatched = ?, saves = ?, save_failures = ?
		WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), string(status),
		s.Processed, s.Matched, s.Unmatched, s.Saves, s.SaveFailures, r.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", r.ID, err)
	}
	return nil
}

// RunRecord is a stored run.
type RunRecord struct {
	ID         string          `json:"id" yaml:"id"`
	Input      string          `json:"input" yaml:"input"`
	Output     string          `json:"output" yaml:"output"`
	StartedAt  time.Time       `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Status     types.RunStatus `json:"status" yaml:"status"`

	types.RunSummary `yaml:",inline"`
}

// Entry is a stored row resolution.
type Entry struct {
	Index int    `json:"index" yaml:"index"`
	Name  string `json:"name" yaml:"name"`

	types.Resolution `yaml:",inline"`
}

const runColumns = `id, input, output, started_at, finished_at, status,
	processed, matched, unmatched, saves, save_failures`

// Runs lists every run, most recent first.
func (j *Journal) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, rows.Err()
}

// Run loads one run by ID. It returns ErrRunNotFound for unknown IDs.
func (j *Journal) Run(ctx context.Context, id string) (RunRecord, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return rec, err
}

// Entries returns the recorded rows of a run in row order.
func (j *Journal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT row_index, name, query, candidates, url, status, search_ns, verify_ns, search_error
		FROM resolutions WHERE run_id = ? ORDER BY row_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying resolutions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                     Entry
			query, url, searchErr sql.NullString
			candidates            sql.NullString
			status                string
			searchNS, verifyNS    sql.NullInt64
		)
		if err := rows.Scan(&e.Index, &e.Name, &query, &candidates, &url, &status,
			&searchNS, &verifyNS, &searchErr); err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}
		e.Query = query.String
		e.URL = url.String
		e.Status = types.ResolutionStatus(status)
		e.SearchDuration = time.Duration(searchNS.Int64)
		e.VerifyDuration = time.Duration(verifyNS.Int64)
		e.SearchError = searchErr.String
		if candidates.Valid && candidates.String != "" {
			if err := json.Unmarshal([]byte(candidates.String), &e.Candidates); err != nil {
				return nil, fmt.Errorf("parsing candidates for row %d: %w", e.Index, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec             RunRecord
		started, status string
		finished        sql.NullString
	)
	err := s.Scan(&rec.ID, &rec.Input, &rec.Output, &started, &finished, &status,
		&rec.Processed, &rec.Matched, &rec.Unmatched, &rec.Saves, &rec.SaveFailures)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scanning run: %w", err)
	}

	rec.Status = types.RunStatus(status)
	if rec.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return rec, fmt.Errorf("parsing started_at for %s: %w", rec.ID, err)
	}
	if finished.Valid {
		t, err := time.Parse(timeLayout, finished.String)
		if err != nil {
			return rec, fmt.Errorf("parsing finished_at for %s: %w", rec.ID, err)
		}
		rec.FinishedAt = &t
	}
	return rec, nil
}
