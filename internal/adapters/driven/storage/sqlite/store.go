package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/lispmeta/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// Store is a SQLite-backed record store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.lispmeta/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lispmeta", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Save stores or replaces the record for rec.Path.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.Path == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO records (id, path, content_type, size, mod_time, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			id = excluded.id,
			content_type = excluded.content_type,
			size = excluded.size,
			mod_time = excluded.mod_time,
			imported_at = excluded.imported_at
	`, rec.ID, rec.Path, string(rec.ContentType), rec.Size, rec.ModTime, rec.ImportedAt)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM attributes WHERE path = ?", rec.Path); err != nil {
		return fmt.Errorf("clearing attributes: %w", err)
	}

	if len(rec.Attributes) > 0 {
		stmt, err := tx.PrepareContext(ctx, "INSERT INTO attributes (path, key, value) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("preparing statement: %w", err)
		}
		defer stmt.Close()

		for _, key := range rec.Attributes.SortedKeys() {
			if _, err := stmt.ExecContext(ctx, rec.Path, string(key), rec.Attributes[key]); err != nil {
				return fmt.Errorf("saving attribute %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Get retrieves the record for a path.
func (s *Store) Get(ctx context.Context, path string) (*domain.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, content_type, size, mod_time, imported_at
		FROM records WHERE path = ?
	`, path)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}

	attrs, err := s.loadAttributes(ctx, path)
	if err != nil {
		return nil, err
	}
	rec.Attributes = attrs
	return rec, nil
}

// Delete removes the record for a path. Attributes cascade.
func (s *Store) Delete(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE path = ?", path); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// List returns records whose path starts with prefix, ordered by path.
func (s *Store) List(ctx context.Context, prefix string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, content_type, size, mod_time, imported_at
		FROM records WHERE substr(path, 1, length(?)) = ?
		ORDER BY path
	`, prefix, prefix)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	for i := range records {
		attrs, err := s.loadAttributes(ctx, records[i].Path)
		if err != nil {
			return nil, err
		}
		records[i].Attributes = attrs
	}
	return records, nil
}

// Search returns records with an attribute value containing query.Text,
// ordered by path. Case folding is ASCII-only, as in SQLite's lower().
func (s *Store) Search(ctx context.Context, query domain.SearchQuery) ([]domain.SearchResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, key FROM attributes
		WHERE path IN (
			SELECT DISTINCT path FROM attributes
			WHERE (? = '' OR key = ?) AND instr(lower(value), lower(?)) > 0
			ORDER BY path
			LIMIT ?
		)
		AND (? = '' OR key = ?) AND instr(lower(value), lower(?)) > 0
		ORDER BY path, key
	`, string(query.Key), string(query.Key), query.Text, limit,
		string(query.Key), string(query.Key), query.Text)
	if err != nil {
		return nil, fmt.Errorf("searching attributes: %w", err)
	}
	defer rows.Close()

	var (
		order   []string
		matched = make(map[string][]domain.Key)
	)
	for rows.Next() {
		var path, key string
		if err := rows.Scan(&path, &key); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		if _, seen := matched[path]; !seen {
			order = append(order, path)
		}
		matched[path] = append(matched[path], domain.Key(key))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(order))
	for _, path := range order {
		rec, err := s.Get(ctx, path)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, err
		}
		results = append(results, domain.SearchResult{Record: *rec, MatchedKeys: matched[path]})
	}
	return results, nil
}

// loadAttributes reads every attribute stored for a path.
func (s *Store) loadAttributes(ctx context.Context, path string) (domain.Attributes, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM attributes WHERE path = ?", path)
	if err != nil {
		return nil, fmt.Errorf("querying attributes: %w", err)
	}
	defer rows.Close()

	attrs := make(domain.Attributes)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning attribute: %w", err)
		}
		attrs[domain.Key(key)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attributes: %w", err)
	}
	return attrs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a record row without its attributes.
func scanRecord(row scanner) (*domain.Record, error) {
	var rec domain.Record
	var contentType string

	if err := row.Scan(&rec.ID, &rec.Path, &contentType, &rec.Size, &rec.ModTime, &rec.ImportedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	rec.ContentType = domain.ContentType(contentType)
	return &rec, nil
}
