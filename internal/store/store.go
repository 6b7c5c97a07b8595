// Package store persists analysis runs so the server can list and reload
// them. Records are immutable once saved; a rerun is a new record.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/solar-viability/pkg/viability"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Record is one saved analysis.
type Record struct {
	ID        uuid.UUID                  `json:"id"`
	Name      string                     `json:"name"`
	CreatedAt time.Time                  `json:"createdAt"`
	Project   viability.ProjectData      `json:"project"`
	Metrics   viability.ViabilityMetrics `json:"metrics"`
}

// Summary is the list view of a record.
type Summary struct {
	ID             uuid.UUID                `json:"id"`
	Name           string                   `json:"name"`
	CreatedAt      time.Time                `json:"createdAt"`
	Score          int                      `json:"score"`
	Classification viability.Classification `json:"classification"`
}

// Store is implemented by every persistence backend.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

// NewRecord stamps a fresh ID and creation time on a computed analysis.
func NewRecord(name string, project viability.ProjectData, metrics viability.ViabilityMetrics, now time.Time) Record {
	return Record{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now.UTC(),
		Project:   project.Clone(),
		Metrics:   metrics,
	}
}

// Summarize builds the list view of rec.
func Summarize(rec Record) Summary {
	return Summary{
		ID:             rec.ID,
		Name:           rec.Name,
		CreatedAt:      rec.CreatedAt,
		Score:          rec.Metrics.Score,
		Classification: rec.Metrics.Classification,
	}
}
