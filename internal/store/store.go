// Package store persists aggregation run history behind a small
// interface with Postgres and SQLite drivers.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/prosperian/prosperian-api/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Operation string `json:"operation,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the run-history persistence interface.
type Store interface {
	// RecordRun persists one aggregation run. A missing ID or CreatedAt
	// is filled in; the stored run is returned.
	RecordRun(ctx context.Context, run model.Run) (*model.Run, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Config selects and configures a store driver.
type Config struct {
	// Driver is "postgres", "sqlite" or "" to disable persistence.
	Driver      string
	Path        string
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
}

// Open creates the configured store. An empty driver returns (nil, nil):
// run recording is optional and callers treat a nil store as disabled.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "":
		return nil, nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, cfg.MaxConns, cfg.MinConns)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
