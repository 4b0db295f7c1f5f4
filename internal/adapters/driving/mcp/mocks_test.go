package mcp

import (
	"context"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.SearchResult
	record    *domain.Record
	err       error
	lastQuery domain.SearchQuery
}

func (m *mockSearchService) Search(_ context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	m.lastQuery = q
	return m.results, m.err
}

func (m *mockSearchService) Get(_ context.Context, _ string) (*domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.record == nil {
		return nil, domain.ErrNotFound
	}
	return m.record, nil
}

// mockImportService is a mock implementation of driving.ImportService.
type mockImportService struct {
	attrs     domain.Attributes
	err       error
	lastPath  string
	lastType  domain.ContentType
	extracted int
}

func (m *mockImportService) Import(_ context.Context, path string) (*domain.Record, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Record{Path: path, Attributes: m.attrs}, nil
}

func (m *mockImportService) Extract(
	_ context.Context, path string, contentType domain.ContentType,
) (domain.Attributes, error) {
	m.extracted++
	m.lastPath = path
	m.lastType = contentType
	if m.err != nil {
		return nil, m.err
	}
	return m.attrs, nil
}

func (m *mockImportService) Remove(_ context.Context, _ string) error {
	return m.err
}

func newTestServer(search *mockSearchService, imports *mockImportService) (*Server, error) {
	return NewServer(&Ports{Search: search, Import: imports})
}
