package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func testRecord(path string, attrs domain.Attributes) *domain.Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Record{
		ID:          "id-" + filepath.Base(path),
		Path:        path,
		ContentType: domain.ContentTypeLisp,
		Attributes:  attrs,
		Size:        128,
		ModTime:     now.Add(-time.Hour),
		ImportedAt:  now,
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "index.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_ReopenSkipsAppliedMigrations(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), testRecord("/a.lisp", domain.Attributes{domain.KeyAuthor: "Jane Doe"})))
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	rec, err := second.Get(context.Background(), "/a.lisp")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", rec.Attributes[domain.KeyAuthor])
}

func TestNewStore_MkdirError(t *testing.T) {
	store, err := NewStore("/dev/null/cannot/create")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestStore_SaveAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	rec := testRecord("/src/a.lisp", domain.Attributes{
		domain.KeyAuthor: "Jane Doe",
		domain.KeyTitle:  "",
	})

	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "/src/a.lisp")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, domain.ContentTypeLisp, got.ContentType)
	assert.Equal(t, int64(128), got.Size)
	assert.True(t, rec.ModTime.Equal(got.ModTime))
	assert.True(t, rec.ImportedAt.Equal(got.ImportedAt))
	assert.Equal(t, rec.Attributes, got.Attributes)
}

func TestStore_SaveReplacesAttributes(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("/a.lisp", domain.Attributes{
		domain.KeyAuthor:  "Jane Doe",
		domain.KeyVersion: "1",
	})))

	second := testRecord("/a.lisp", domain.Attributes{domain.KeyAuthor: "John Roe"})
	second.ID = "new-id"
	require.NoError(t, store.Save(ctx, second))

	got, err := store.Get(ctx, "/a.lisp")
	require.NoError(t, err)
	assert.Equal(t, "new-id", got.ID)
	assert.Equal(t, domain.Attributes{domain.KeyAuthor: "John Roe"}, got.Attributes)
}

func TestStore_SaveNoAttributes(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testRecord("/empty.lisp", nil)))

	got, err := store.Get(ctx, "/empty.lisp")
	require.NoError(t, err)
	assert.Empty(t, got.Attributes)
}

func TestStore_SaveInvalid(t *testing.T) {
	store := setupTestStore(t)

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.Record{}), domain.ErrInvalidInput)
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "/missing.lisp")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRecord("/a.lisp", domain.Attributes{domain.KeyAuthor: "Jane Doe"})))

	require.NoError(t, store.Delete(ctx, "/a.lisp"))
	require.NoError(t, store.Delete(ctx, "/a.lisp"))

	_, err := store.Get(ctx, "/a.lisp")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM attributes").Scan(&n))
	assert.Zero(t, n)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRecord("/src/b.lisp", domain.Attributes{domain.KeyTitle: "B"})))
	require.NoError(t, store.Save(ctx, testRecord("/src/a.lisp", domain.Attributes{domain.KeyTitle: "A"})))
	require.NoError(t, store.Save(ctx, testRecord("/srcx/c.lisp", nil)))
	require.NoError(t, store.Save(ctx, testRecord("/other/d.lisp", nil)))

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	src, err := store.List(ctx, "/src/")
	require.NoError(t, err)
	require.Len(t, src, 2)
	assert.Equal(t, "/src/a.lisp", src[0].Path)
	assert.Equal(t, "A", src[0].Attributes[domain.KeyTitle])
	assert.Equal(t, "/src/b.lisp", src[1].Path)

	none, err := store.List(ctx, "/nowhere/")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_ListPrefixIsLiteral(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRecord("/a_b/x.lisp", nil)))
	require.NoError(t, store.Save(ctx, testRecord("/aXb/y.lisp", nil)))

	got, err := store.List(ctx, "/a_b/")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/a_b/x.lisp", got[0].Path)
}

func TestStore_Search(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testRecord("/a.lisp", domain.Attributes{
		domain.KeyAuthor:   "Jane Doe",
		domain.KeyKeywords: "parsing, doe-style",
	})))
	require.NoError(t, store.Save(ctx, testRecord("/b.lisp", domain.Attributes{domain.KeyAuthor: "John Roe"})))
	require.NoError(t, store.Save(ctx, testRecord("/c.lisp", nil)))

	tests := []struct {
		name    string
		query   domain.SearchQuery
		paths   []string
		matched []domain.Key
	}{
		{"case insensitive", domain.SearchQuery{Text: "DOE"}, []string{"/a.lisp"}, []domain.Key{domain.KeyAuthor, domain.KeyKeywords}},
		{"key filter", domain.SearchQuery{Text: "doe", Key: domain.KeyKeywords}, []string{"/a.lisp"}, []domain.Key{domain.KeyKeywords}},
		{"empty text", domain.SearchQuery{}, []string{"/a.lisp", "/b.lisp"}, []domain.Key{domain.KeyAuthor, domain.KeyKeywords}},
		{"limit", domain.SearchQuery{Text: "o", Limit: 1}, []string{"/a.lisp"}, []domain.Key{domain.KeyAuthor, domain.KeyKeywords}},
		{"no match", domain.SearchQuery{Text: "zzz"}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(ctx, tt.query)
			require.NoError(t, err)

			var paths []string
			for _, r := range results {
				paths = append(paths, r.Record.Path)
			}
			assert.Equal(t, tt.paths, paths)
			if len(results) > 0 {
				assert.Equal(t, tt.matched, results[0].MatchedKeys)
				assert.NotEmpty(t, results[0].Record.Attributes)
			}
		})
	}
}
