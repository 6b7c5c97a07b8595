/*
Package sqlite provides a SQLite-backed implementation of store.Store.

Each analysis is one row of the analyses table. The project input and the
computed metrics are kept as JSON documents; score and classification are
duplicated into columns so listing does not decode the metrics.

The database is opened in WAL mode. Use ":memory:" for a throwaway database;
the connection pool is then limited to one connection so every query sees
the same in-memory database.
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/solar-viability/internal/store"
	"github.com/iwvelando/solar-viability/pkg/viability"
	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		score INTEGER NOT NULL,
		classification TEXT NOT NULL,
		project_json TEXT NOT NULL,
		metrics_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_created_at
		ON analyses(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts rec.
func (s *Store) Save(ctx context.Context, rec store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projectJSON, err := json.Marshal(rec.Project)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	metricsJSON, err := json.Marshal(rec.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, name, created_at, score, classification, project_json, metrics_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID.String(),
		rec.Name,
		rec.CreatedAt.UTC().Format(timeLayout),
		rec.Metrics.Score,
		string(rec.Metrics.Classification),
		string(projectJSON),
		string(metricsJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rec                      store.Record
		idStr, createdAt         string
		projectJSON, metricsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, project_json, metrics_json
		FROM analyses WHERE id = ?
	`, id.String()).Scan(&idStr, &rec.Name, &createdAt, &projectJSON, &metricsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("failed to query analysis: %w", err)
	}

	if rec.ID, err = uuid.Parse(idStr); err != nil {
		return store.Record{}, fmt.Errorf("invalid analysis id %q: %w", idStr, err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return store.Record{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(projectJSON), &rec.Project); err != nil {
		return store.Record{}, fmt.Errorf("failed to decode project: %w", err)
	}
	if err := json.Unmarshal([]byte(metricsJSON), &rec.Metrics); err != nil {
		return store.Record{}, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return rec, nil
}

// List returns all records, newest first.
func (s *Store) List(ctx context.Context) ([]store.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, score, classification
		FROM analyses ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	summaries := []store.Summary{}
	for rows.Next() {
		var (
			sum                      store.Summary
			idStr, createdAt, classn string
		)
		if err := rows.Scan(&idStr, &sum.Name, &createdAt, &sum.Score, &classn); err != nil {
			return nil, err
		}
		if sum.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("invalid analysis id %q: %w", idStr, err)
		}
		if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		sum.Classification = viability.Classification(classn)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// Delete removes the record with the given ID.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
