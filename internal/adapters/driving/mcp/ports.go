package mcp

import (
	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Import extracts metadata from files.
	Import driving.ImportService

	// Search queries stored records.
	Search driving.SearchService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Import == nil {
		return ErrMissingImportService
	}
	return nil
}
