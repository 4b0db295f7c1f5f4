package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for lispmeta resources.
	uriScheme = "lispmeta://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing what the importer recognises.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "schema",
		Name:        "schema",
		Description: "Attribute keys and content types recognised by the importer",
		MIMEType:    "application/json",
	}, s.handleSchemaResource)

	// Template for stored records, keyed by escaped file path.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "records/{path}",
		Name:        "record",
		Description: "Stored metadata for a file; path is the URL-escaped absolute path",
		MIMEType:    "application/json",
	}, s.handleRecordResource)
}

// handleSchemaResource lists attribute keys and content types.
func (s *Server) handleSchemaResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type schema struct {
		Keys         []string `json:"keys"`
		ContentTypes []string `json:"content_types"`
	}

	var out schema
	for _, k := range domain.Keys() {
		out.Keys = append(out.Keys, k.String())
	}
	for _, ct := range domain.LispContentTypes() {
		out.ContentTypes = append(out.ContentTypes, ct.String())
	}

	return jsonResource(req.Params.URI, out)
}

// handleRecordResource returns the stored record for a file.
func (s *Server) handleRecordResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract path from URI: lispmeta://records/{path}
	path := extractRecordPath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Search.Get(ctx, path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting record: %w", err)
	}

	type recordInfo struct {
		ID          string            `json:"id"`
		Path        string            `json:"path"`
		ContentType string            `json:"content_type"`
		Attributes  map[string]string `json:"attributes"`
		Size        int64             `json:"size"`
	}

	return jsonResource(req.Params.URI, recordInfo{
		ID:          rec.ID,
		Path:        rec.Path,
		ContentType: rec.ContentType.String(),
		Attributes:  rec.Attributes.StringMap(),
		Size:        rec.Size,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRecordPath extracts the file path from a URI like
// lispmeta://records/%2Fsrc%2Fa.lisp.
func extractRecordPath(uri string) string {
	const prefix = uriScheme + "records/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	path, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return path
}

// RecordURI returns the resource URI for a file path.
func RecordURI(path string) string {
	return uriScheme + "records/" + url.PathEscape(path)
}
