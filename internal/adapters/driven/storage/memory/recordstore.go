package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.Record
}

// NewRecordStore creates a new in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.Record),
	}
}

// Save stores or replaces the record for rec.Path.
func (s *RecordStore) Save(_ context.Context, rec *domain.Record) error {
	if rec == nil || rec.Path == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	cp.Attributes = rec.Attributes.Clone()
	s.records[rec.Path] = cp
	return nil
}

// Get retrieves the record for a path.
func (s *RecordStore) Get(_ context.Context, path string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	rec.Attributes = rec.Attributes.Clone()
	return &rec, nil
}

// Delete removes the record for a path.
func (s *RecordStore) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, path)
	return nil
}

// List returns records whose path starts with prefix, ordered by path.
func (s *RecordStore) List(_ context.Context, prefix string) ([]domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Record
	for path, rec := range s.records {
		if strings.HasPrefix(path, prefix) {
			rec.Attributes = rec.Attributes.Clone()
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// Search returns records matching the query, ordered by path.
func (s *RecordStore) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	records, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	needle := strings.ToLower(query.Text)

	var results []domain.SearchResult
	for i := range records {
		matched := matchKeys(records[i].Attributes, query.Key, needle)
		if len(matched) == 0 {
			continue
		}
		results = append(results, domain.SearchResult{Record: records[i], MatchedKeys: matched})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

// matchKeys returns the sorted keys whose values contain needle.
// An empty needle matches every present key.
func matchKeys(attrs domain.Attributes, only domain.Key, needle string) []domain.Key {
	var matched []domain.Key
	for _, k := range attrs.SortedKeys() {
		if only != "" && k != only {
			continue
		}
		if strings.Contains(strings.ToLower(attrs[k]), needle) {
			matched = append(matched, k)
		}
	}
	return matched
}
