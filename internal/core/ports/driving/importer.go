package driving

import (
	"context"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// ImportService imports single files into the record index.
type ImportService interface {
	// Import extracts metadata from the file at path and stores the record.
	// The content type is detected from the file extension.
	Import(ctx context.Context, path string) (*domain.Record, error)

	// Extract runs the importer for contentType without storing anything.
	// An empty contentType is detected from the file extension.
	Extract(ctx context.Context, path string, contentType domain.ContentType) (domain.Attributes, error)

	// Remove deletes the record for path, if any.
	Remove(ctx context.Context, path string) error
}
