package driving

import (
	"context"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search finds records whose attribute values contain the query text.
	Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error)

	// Get returns the record for a path.
	Get(ctx context.Context, path string) (*domain.Record, error)
}
