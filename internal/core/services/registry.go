package services

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
)

// ImporterRegistry maps content types to the importer that handles them.
type ImporterRegistry struct {
	mu        sync.RWMutex
	importers map[string]driven.Importer
}

// NewImporterRegistry creates a registry holding the given importers.
func NewImporterRegistry(importers ...driven.Importer) *ImporterRegistry {
	r := &ImporterRegistry{
		importers: make(map[string]driven.Importer),
	}
	for _, imp := range importers {
		r.Register(imp)
	}
	return r
}

// Register adds an importer for every content type it supports.
// A later registration for the same type replaces the earlier one.
func (r *ImporterRegistry) Register(imp driven.Importer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ct := range imp.SupportedContentTypes() {
		r.importers[strings.ToLower(string(ct))] = imp
	}
}

// Lookup returns the importer registered for contentType.
func (r *ImporterRegistry) Lookup(contentType domain.ContentType) (driven.Importer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	imp, ok := r.importers[strings.ToLower(string(contentType))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, contentType)
	}
	return imp, nil
}

// SupportedContentTypes returns every registered content type, sorted.
func (r *ImporterRegistry) SupportedContentTypes() []domain.ContentType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.ContentType, 0, len(r.importers))
	for ct := range r.importers {
		types = append(types, domain.ContentType(ct))
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
