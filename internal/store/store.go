// Package store persists finished prospecting runs. The pipeline
// treats it as a write-only boundary: a failed write is reported in
// the run summary but never rolls back computed scores.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/model"
)

// Store is the persistence interface for prospecting runs.
type Store interface {
	// SaveRun persists one run summary and its ranked prospects.
	SaveRun(ctx context.Context, summary *model.RunSummary, prospects []model.Prospect) error

	// TopProspects returns the highest-priority prospects recorded for
	// a query, newest first. Used by the list command, not by the
	// pipeline itself.
	TopProspects(ctx context.Context, query string, limit int) ([]model.Prospect, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// New opens the configured backend.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(cfg.DatabaseURL)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
