package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/prosperian/prosperian-api/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	operation        TEXT NOT NULL,
	params           TEXT,
	total_searches   INTEGER NOT NULL DEFAULT 0,
	total_leads      INTEGER NOT NULL DEFAULT 0,
	filtered_leads   INTEGER NOT NULL DEFAULT 0,
	unique_companies INTEGER NOT NULL DEFAULT 0,
	processing_time  REAL NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_operation ON runs(operation);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run model.Run) (*model.Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal params")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, operation, params, total_searches, total_leads, filtered_leads, unique_companies, processing_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Operation, string(paramsJSON),
		run.TotalSearches, run.TotalLeads, run.FilteredLeads, run.UniqueCompanies,
		run.ProcessingTime, run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, operation, params, total_searches, total_leads, filtered_leads, unique_companies, processing_time, created_at
		 FROM runs WHERE id = ?`,
		id,
	)
	run, err := scanSQLiteRun(row)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("sqlite: run %s not found", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", id)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, operation, params, total_searches, total_leads, filtered_leads, unique_companies, processing_time, created_at FROM runs`
	var args []any
	if filter.Operation != "" {
		query += ` WHERE operation = ?`
		args = append(args, filter.Operation)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var paramsJSON sql.NullString
	var createdAt string

	if err := row.Scan(
		&run.ID, &run.Operation, &paramsJSON,
		&run.TotalSearches, &run.TotalLeads, &run.FilteredLeads, &run.UniqueCompanies,
		&run.ProcessingTime, &createdAt,
	); err != nil {
		return nil, err
	}

	if paramsJSON.Valid && paramsJSON.String != "" && paramsJSON.String != "null" {
		if err := json.Unmarshal([]byte(paramsJSON.String), &run.Params); err != nil {
			return nil, eris.Wrap(err, "unmarshal params")
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, eris.Wrap(err, "parse created_at")
	}
	run.CreatedAt = ts

	return &run, nil
}
