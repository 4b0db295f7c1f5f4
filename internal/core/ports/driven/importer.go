package driven

import (
	"context"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// Importer extracts metadata attributes from files of specific content types.
type Importer interface {
	// SupportedContentTypes returns the content types this importer handles.
	SupportedContentTypes() []domain.ContentType

	// Import populates attrs from the file at path.
	// attrs is owned by the caller and is not retained.
	Import(ctx context.Context, path string, contentType domain.ContentType, attrs domain.Attributes) error
}
