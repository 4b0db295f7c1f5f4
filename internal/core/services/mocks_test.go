package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lispmeta/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/importer"
)

// --- Mock implementations ---

// mockImporter implements driven.Importer for testing.
type mockImporter struct {
	types []domain.ContentType
	attrs domain.Attributes
	err   error
	calls int
}

func (m *mockImporter) SupportedContentTypes() []domain.ContentType {
	return m.types
}

func (m *mockImporter) Import(_ context.Context, _ string, _ domain.ContentType, attrs domain.Attributes) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	for k, v := range m.attrs {
		attrs[k] = v
	}
	return nil
}

// mockRecordStore implements driven.RecordStore with injectable errors.
type mockRecordStore struct {
	*memory.RecordStore
	getErr    error
	saveErr   error
	deleteErr error
	listErr   error
	searchErr error
}

func newMockRecordStore() *mockRecordStore {
	return &mockRecordStore{RecordStore: memory.NewRecordStore()}
}

func (m *mockRecordStore) Get(ctx context.Context, path string) (*domain.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.RecordStore.Get(ctx, path)
}

func (m *mockRecordStore) Save(ctx context.Context, rec *domain.Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	return m.RecordStore.Save(ctx, rec)
}

func (m *mockRecordStore) Delete(ctx context.Context, path string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	return m.RecordStore.Delete(ctx, path)
}

func (m *mockRecordStore) List(ctx context.Context, prefix string) ([]domain.Record, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.RecordStore.List(ctx, prefix)
}

func (m *mockRecordStore) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.RecordStore.Search(ctx, q)
}

var _ driven.RecordStore = (*mockRecordStore)(nil)

// --- Helpers ---

// newTestImportService wires a real importer into an import service.
func newTestImportService(store driven.RecordStore, opts ...importer.Option) *ImportService {
	return NewImportService(NewImporterRegistry(importer.New(opts...)), store)
}

// writeFile creates a file below dir, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleHeader = ";;;; sample.lisp\n;;; Author: Jane Doe\n;;; Version: 1.2\n(defun f () nil)\n"
