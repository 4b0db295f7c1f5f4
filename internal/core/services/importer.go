package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
	"github.com/custodia-labs/lispmeta/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService runs importers on single files and stores the results.
type ImportService struct {
	registry *ImporterRegistry
	store    driven.RecordStore
	now      func() time.Time
}

// NewImportService creates a new import service.
func NewImportService(registry *ImporterRegistry, store driven.RecordStore) *ImportService {
	return &ImportService{
		registry: registry,
		store:    store,
		now:      time.Now,
	}
}

// Import extracts metadata from the file at path and stores the record.
// Re-importing a path keeps its record ID.
func (s *ImportService) Import(ctx context.Context, path string) (*domain.Record, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	contentType := domain.ContentTypeForPath(abs)
	if contentType == "" {
		return nil, &domain.ImportError{Op: "import", Path: abs, Err: domain.ErrUnsupportedContentType}
	}

	info, err := os.Stat(abs)
	if err != nil {
		kind := domain.ErrIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = domain.ErrFileNotFound
		}
		return nil, &domain.ImportError{Op: "stat", Path: abs, ContentType: contentType, Err: fmt.Errorf("%w: %w", kind, err)}
	}
	if info.IsDir() {
		return nil, &domain.ImportError{Op: "stat", Path: abs, ContentType: contentType, Err: fmt.Errorf("%w: is a directory", domain.ErrIO)}
	}

	attrs, err := s.Extract(ctx, abs, contentType)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if existing, err := s.store.Get(ctx, abs); err == nil {
		id = existing.ID
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get record: %w", err)
	}

	rec := &domain.Record{
		ID:          id,
		Path:        abs,
		ContentType: contentType,
		Attributes:  attrs,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ImportedAt:  s.now(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}

	logger.Debug("Imported %s: %d attributes", abs, len(attrs))
	return rec, nil
}

// Extract runs the importer for contentType without storing anything.
func (s *ImportService) Extract(
	ctx context.Context, path string, contentType domain.ContentType,
) (domain.Attributes, error) {
	if contentType == "" {
		contentType = domain.ContentTypeForPath(path)
	}

	imp, err := s.registry.Lookup(contentType)
	if err != nil {
		return nil, &domain.ImportError{Op: "import", Path: path, ContentType: contentType, Err: err}
	}

	attrs := make(domain.Attributes)
	if err := imp.Import(ctx, path, contentType, attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// Remove deletes the record for path, if any.
func (s *ImportService) Remove(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := s.store.Delete(ctx, abs); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	logger.Debug("Removed %s", abs)
	return nil
}
