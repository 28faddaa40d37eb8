package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// SQLite serializes writes; one connection also keeps :memory:
	// databases coherent across the pool.
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
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
	id         TEXT PRIMARY KEY,
	query      TEXT NOT NULL,
	location   TEXT NOT NULL,
	summary    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS prospects (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	domain      TEXT,
	priority    REAL NOT NULL,
	fit         INTEGER NOT NULL,
	opportunity INTEGER NOT NULL,
	competition INTEGER NOT NULL,
	degraded    INTEGER NOT NULL DEFAULT 0,
	data        TEXT NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_query ON runs(query);
CREATE INDEX IF NOT EXISTS idx_prospects_run_id ON prospects(run_id);
CREATE INDEX IF NOT EXISTS idx_prospects_priority ON prospects(priority);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, summary *model.RunSummary, prospects []model.Prospect) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal summary")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	runID := summary.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, query, location, summary, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, summary.Query, summary.Location, string(summaryJSON), now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert run")
	}

	for i := range prospects {
		p := &prospects[i]
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal prospect %s", p.Candidate.Name)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO prospects (id, run_id, name, domain, priority, fit, opportunity, competition, degraded, data, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), runID, p.Candidate.Name, p.Candidate.Domain,
			p.PriorityScore, p.FitScore, p.OpportunityScore, p.CompetitionScore,
			boolToInt(p.Degraded), string(data), now,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert prospect %s", p.Candidate.Name)
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit")
}

func (s *SQLiteStore) TopProspects(ctx context.Context, query string, limit int) ([]model.Prospect, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.data FROM prospects p
		 JOIN runs r ON r.id = p.run_id
		 WHERE r.query = ?
		 ORDER BY p.priority DESC, p.created_at DESC
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query prospects")
	}
	defer rows.Close()

	var out []model.Prospect
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prospect")
		}
		var p model.Prospect
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal prospect")
		}
		out = append(out, p)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate prospects")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
