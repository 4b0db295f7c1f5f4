package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
	"github.com/custodia-labs/lispmeta/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService searches stored metadata records.
type SearchService struct {
	store driven.RecordStore
}

// NewSearchService creates a new search service.
func NewSearchService(store driven.RecordStore) *SearchService {
	return &SearchService{store: store}
}

// Search finds records whose attribute values contain the query text.
// An empty text lists records that have any attribute.
func (s *SearchService) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")

	query.Text = strings.TrimSpace(query.Text)
	if query.Key != "" && !query.Key.IsValid() {
		return nil, fmt.Errorf("%w: unknown attribute key %q", domain.ErrInvalidInput, query.Key)
	}
	if query.Limit <= 0 {
		query.Limit = domain.DefaultSearchLimit
	}
	logger.Debug("Query: %q, key: %q, limit: %d", query.Text, query.Key, query.Limit)

	results, err := s.store.Search(ctx, query)
	if err != nil {
		logger.Warn("Search failed: %v", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

// Get returns the record for a path.
func (s *SearchService) Get(ctx context.Context, path string) (*domain.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	return s.store.Get(ctx, abs)
}
