// SPDX-License-Identifier: MIT

package ledger

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/gwsur/pipeline"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("ledger: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS builds (
	run_id          TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	training_count  INTEGER NOT NULL,
	param_lo        REAL NOT NULL,
	param_hi        REAL NOT NULL,
	tolerance       REAL NOT NULL,
	basis_size      INTEGER NOT NULL,
	converged       INTEGER NOT NULL,
	final_residual  REAL NOT NULL,
	lebesgue        REAL NOT NULL,
	max_train_error REAL NOT NULL,
	mean_train_error REAL NOT NULL,
	duration_ns     INTEGER NOT NULL,
	warnings_json   TEXT,
	report          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS builds_by_name ON builds(name, created_at);
`

// Entry is one recorded build.
type Entry struct {
	RunID             string
	Name              string
	Created           time.Time
	TrainingCount     int
	ParamLo, ParamHi  float64
	Tolerance         float64
	BasisSize         int
	Converged         bool
	FinalResidual     float64
	Lebesgue          float64
	MaxTrainingError  float64
	MeanTrainingError float64
	Duration          time.Duration
	Warnings          []string
	Report            string
}

// FromSummary flattens a build summary into an entry (RunID left empty).
func FromSummary(sum *pipeline.Summary) (Entry, error) {
	var report bytes.Buffer
	if err := sum.WriteReport(&report); err != nil {
		return Entry{}, fmt.Errorf("ledger: render report: %w", err)
	}

	return Entry{
		Name:              sum.Name,
		Created:           sum.Created,
		TrainingCount:     sum.TrainingCount,
		ParamLo:           sum.ParamLo,
		ParamHi:           sum.ParamHi,
		Tolerance:         sum.Tolerance,
		BasisSize:         sum.BasisSize,
		Converged:         sum.Converged,
		FinalResidual:     sum.FinalResidual(),
		Lebesgue:          sum.Lebesgue,
		MaxTrainingError:  sum.MaxTrainingError,
		MeanTrainingError: sum.MeanTrainingError,
		Duration:          sum.Total(),
		Warnings:          append([]string(nil), sum.Warnings...),
		Report:            report.String(),
	}, nil
}

// Ledger is a build history backed by SQLite.
type Ledger struct {
	db *sql.DB
}

// Open opens the database at path and applies the schema.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: migrate: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores e under a fresh UUID (kept if e.RunID is already set) and
// returns the run id.
func (l *Ledger) Record(ctx context.Context, e Entry) (string, error) {
	if e.RunID == "" {
		e.RunID = uuid.New().String()
	}
	if e.Created.IsZero() {
		e.Created = time.Now().UTC()
	}
	warnings, err := json.Marshal(e.Warnings)
	if err != nil {
		return "", fmt.Errorf("ledger: marshal warnings: %w", err)
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO builds (run_id, name, created_at, training_count, param_lo, param_hi, tolerance,
		   basis_size, converged, final_residual, lebesgue, max_train_error, mean_train_error,
		   duration_ns, warnings_json, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Name, e.Created.UTC().Format(time.RFC3339Nano), e.TrainingCount, e.ParamLo, e.ParamHi,
		e.Tolerance, e.BasisSize, e.Converged, e.FinalResidual, e.Lebesgue, e.MaxTrainingError,
		e.MeanTrainingError, int64(e.Duration), string(warnings), e.Report,
	)
	if err != nil {
		return "", fmt.Errorf("ledger: insert run %s: %w", e.RunID, err)
	}

	return e.RunID, nil
}

const selectEntry = `SELECT run_id, name, created_at, training_count, param_lo, param_hi, tolerance,
	basis_size, converged, final_residual, lebesgue, max_train_error, mean_train_error,
	duration_ns, warnings_json, report FROM builds`

// scanner is the common surface of *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e        Entry
		created  string
		duration int64
		warnings sql.NullString
	)
	err := sc.Scan(&e.RunID, &e.Name, &created, &e.TrainingCount, &e.ParamLo, &e.ParamHi, &e.Tolerance,
		&e.BasisSize, &e.Converged, &e.FinalResidual, &e.Lebesgue, &e.MaxTrainingError,
		&e.MeanTrainingError, &duration, &warnings, &e.Report)
	if err != nil {
		return Entry{}, err
	}
	e.Created, _ = time.Parse(time.RFC3339Nano, created)
	e.Duration = time.Duration(duration)
	if warnings.Valid {
		if err := json.Unmarshal([]byte(warnings.String), &e.Warnings); err != nil {
			return Entry{}, fmt.Errorf("unmarshal warnings: %w", err)
		}
	}

	return e, nil
}

// Get returns the run with the given id.
func (l *Ledger) Get(ctx context.Context, runID string) (Entry, error) {
	e, err := scanEntry(l.db.QueryRowContext(ctx, selectEntry+` WHERE run_id = ?`, runID))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Entry{}, fmt.Errorf("%s: %w", runID, ErrNotFound)
	case err != nil:
		return Entry{}, fmt.Errorf("ledger: get run %s: %w", runID, err)
	}

	return e, nil
}

// Recent returns up to limit runs, newest first. An empty name matches all.
func (l *Ledger) Recent(ctx context.Context, name string, limit int) ([]Entry, error) {
	q, args := selectEntry, []any{}
	if name != "" {
		q += ` WHERE name = ?`
		args = append(args, name)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: list runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan run: %w", err)
		}
		out = append(out, e)
	}

	return out, rows.Err()
}
