// Package mcp provides an MCP (Model Context Protocol) server adapter for lispmeta.
// It lets AI assistants extract and search metadata in local Lisp source files.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingImportService is returned when the import service is not provided.
var ErrMissingImportService = errors.New("mcp: import service is required")
