package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS performance_records (
	id             TEXT PRIMARY KEY,
	correlation_id TEXT,
	task_type      TEXT NOT NULL,
	model          TEXT NOT NULL,
	cost           REAL NOT NULL,
	candidate_cost REAL NOT NULL,
	judge_cost     REAL NOT NULL,
	total_cost     REAL NOT NULL,
	latency_ms     INTEGER NOT NULL,
	fallback_used  INTEGER NOT NULL DEFAULT 0,
	verdict        TEXT,
	failures       TEXT,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_performance_records_correlation
	ON performance_records (correlation_id);
CREATE INDEX IF NOT EXISTS idx_performance_records_task_type
	ON performance_records (task_type);
`

// SQLiteStore persists records in an append-only SQLite table, so
// external feedback loops can join them with business outcomes by
// correlation id.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and ensures the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("ledger: sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: failed to open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ledger: failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts one record.
func (s *SQLiteStore) Append(ctx context.Context, rec *Record) error {
	var verdictJSON any
	if rec.Verdict != nil {
		data, err := json.Marshal(rec.Verdict)
		if err != nil {
			return err
		}
		verdictJSON = string(data)
	}
	var failuresJSON any
	if len(rec.Failures) > 0 {
		data, err := json.Marshal(rec.Failures)
		if err != nil {
			return err
		}
		failuresJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO performance_records (
			id, correlation_id, task_type, model,
			cost, candidate_cost, judge_cost, total_cost,
			latency_ms, fallback_used, verdict, failures, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CorrelationID, rec.TaskType, rec.Model,
		rec.Cost, rec.CandidateCost, rec.JudgeCost, rec.TotalCost,
		rec.LatencyMs, boolToInt(rec.FallbackUsed), verdictJSON, failuresJSON,
		rec.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
