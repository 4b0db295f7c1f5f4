package driven

import (
	"context"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// RecordStore persists imported records.
// Backed by SQLite for the on-disk index.
type RecordStore interface {
	// Save stores or replaces the record for rec.Path.
	Save(ctx context.Context, rec *domain.Record) error

	// Get retrieves the record for a path.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, path string) (*domain.Record, error)

	// Delete removes the record for a path. Missing records are not an error.
	Delete(ctx context.Context, path string) error

	// List returns all records whose path starts with prefix, ordered by path.
	// An empty prefix lists every record.
	List(ctx context.Context, prefix string) ([]domain.Record, error)

	// Search returns records matching the query, ordered by path.
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error)
}
