package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// ExtractInput is the input schema for the extract_metadata tool.
type ExtractInput struct {
	Path        string `json:"path" jsonschema:"absolute path of the Lisp source file"`
	ContentType string `json:"content_type,omitempty" jsonschema:"content type to import as (detected from the extension when empty)"`
}

// ExtractOutput is the output schema for the extract_metadata tool.
type ExtractOutput struct {
	Path        string            `json:"path"`
	ContentType string            `json:"content_type"`
	Attributes  map[string]string `json:"attributes"`
}

// SearchInput is the input schema for the search_metadata tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find in attribute values (case-insensitive substring)"`
	Key   string `json:"key,omitempty" jsonschema:"only match this attribute, e.g. author or license"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 20)"`
}

// SearchOutput is the output schema for the search_metadata tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Path        string            `json:"path"`
	ContentType string            `json:"content_type"`
	Attributes  map[string]string `json:"attributes"`
	MatchedKeys []string          `json:"matched_keys"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_metadata",
		Description: "Extract header metadata (author, version, license, ...) from a Lisp source file without storing it",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_metadata",
		Description: "Search imported Lisp source files by header metadata",
	}, s.handleSearch)
}

// handleExtract handles the extract_metadata tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	contentType := domain.ContentType(input.ContentType)
	if contentType == "" {
		contentType = domain.ContentTypeForPath(input.Path)
	}

	attrs, err := s.ports.Import.Extract(ctx, input.Path, contentType)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	return nil, ExtractOutput{
		Path:        input.Path,
		ContentType: contentType.String(),
		Attributes:  attrs.StringMap(),
	}, nil
}

// handleSearch handles the search_metadata tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	results, err := s.ports.Search.Search(ctx, domain.SearchQuery{
		Text:  input.Query,
		Key:   domain.Key(input.Key),
		Limit: limit,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		matched := make([]string, len(results[i].MatchedKeys))
		for j, k := range results[i].MatchedKeys {
			matched[j] = k.String()
		}
		output.Results[i] = SearchResultOutput{
			Path:        results[i].Record.Path,
			ContentType: results[i].Record.ContentType.String(),
			Attributes:  results[i].Record.Attributes.StringMap(),
			MatchedKeys: matched,
		}
	}

	return nil, output, nil
}
