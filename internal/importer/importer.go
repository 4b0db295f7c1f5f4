// Package importer extracts header metadata from Lisp source files.
//
// An Importer gates on content type, reads the file with a size cap, and
// matches every line against a fixed table of field patterns, writing each
// match into a caller-owned attribute map. Later matches overwrite earlier
// ones unless WithFirstMatchWins is set.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/fieldmatch"
	"github.com/custodia-labs/lispmeta/internal/logger"
	"github.com/custodia-labs/lispmeta/internal/textfile"
)

// Ensure Importer implements the interface.
var _ driven.Importer = (*Importer)(nil)

// ctxCheckInterval is how many lines are scanned between context checks.
const ctxCheckInterval = 256

// Importer extracts metadata attributes from Lisp source files.
// It holds only immutable configuration and is safe for concurrent use.
type Importer struct {
	table      *fieldmatch.Table
	maxSize    int64
	scanMode   domain.ScanMode
	firstMatch bool
	fallback   string
}

// Option configures an Importer.
type Option func(*Importer)

// WithTable replaces the field pattern table. A nil table keeps the
// default.
func WithTable(t *fieldmatch.Table) Option {
	return func(i *Importer) {
		if t != nil {
			i.table = t
		}
	}
}

// WithMaxFileSize sets the largest file, in bytes, that will be read.
func WithMaxFileSize(n int64) Option {
	return func(i *Importer) {
		i.maxSize = n
	}
}

// WithScanMode selects which lines are matched.
func WithScanMode(m domain.ScanMode) Option {
	return func(i *Importer) {
		i.scanMode = m
	}
}

// WithFirstMatchWins keeps the first value found for each key
// instead of the last.
func WithFirstMatchWins(v bool) Option {
	return func(i *Importer) {
		i.firstMatch = v
	}
}

// WithFallbackCharset sets the charset used for files that are not UTF-8.
func WithFallbackCharset(name string) Option {
	return func(i *Importer) {
		i.fallback = name
	}
}

// FromSettings returns the options matching the import settings.
func FromSettings(s domain.ImportSettings) []Option {
	return []Option{
		WithMaxFileSize(s.MaxFileSize),
		WithScanMode(s.ScanMode),
		WithFirstMatchWins(s.FirstMatchWins),
		WithFallbackCharset(s.FallbackCharset),
	}
}

// New creates an importer using the default field table and limits.
func New(opts ...Option) *Importer {
	i := &Importer{
		table:    fieldmatch.DefaultTable(),
		maxSize:  domain.DefaultMaxFileSize,
		scanMode: domain.ScanAll,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SupportedContentTypes returns the content types this importer handles.
func (i *Importer) SupportedContentTypes() []domain.ContentType {
	return domain.LispContentTypes()
}

// Import extracts metadata from the file at path into attrs.
//
// It fails with domain.ErrUnsupportedContentType, without reading the file
// or touching attrs, when contentType is not Lisp source. Read failures are
// returned as *domain.ImportError. A file with no matching lines succeeds
// and leaves attrs unchanged.
func (i *Importer) Import(ctx context.Context, path string, contentType domain.ContentType, attrs domain.Attributes) error {
	if attrs == nil {
		return &domain.ImportError{
			Op: "import", Path: path, ContentType: contentType,
			Err: fmt.Errorf("%w: nil attribute map", domain.ErrInvalidInput),
		}
	}
	if !contentType.IsLisp() {
		return &domain.ImportError{Op: "import", Path: path, ContentType: contentType, Err: domain.ErrUnsupportedContentType}
	}

	logger.Debug("importing %s as %s", path, contentType)

	text, err := textfile.Read(path, i.maxSize, textfile.WithFallbackCharset(i.fallback))
	if err != nil {
		var ie *domain.ImportError
		if errors.As(err, &ie) {
			ie.ContentType = contentType
		}
		return err
	}

	found, err := i.scan(ctx, path, text, attrs)
	if err != nil {
		return &domain.ImportError{Op: "import", Path: path, ContentType: contentType, Err: err}
	}

	logger.Debug("imported %s: %d field(s) matched", path, found)
	return nil
}

// ImportFile is the host entry point. It reports success as a boolean and
// logs the reason for any failure.
func (i *Importer) ImportFile(path, contentType string, attrs domain.Attributes) bool {
	if err := i.Import(context.Background(), path, domain.ContentType(contentType), attrs); err != nil {
		logger.Debug("import failed: %v", err)
		return false
	}
	return true
}

// Scan matches text that is already in memory, as if read from name.
func (i *Importer) Scan(ctx context.Context, name, text string, attrs domain.Attributes) error {
	if attrs == nil {
		return fmt.Errorf("%w: nil attribute map", domain.ErrInvalidInput)
	}
	_, err := i.scan(ctx, name, text, attrs)
	return err
}

// scan applies every pattern to every relevant line and returns the
// number of matches written.
func (i *Importer) scan(ctx context.Context, name, text string, attrs domain.Attributes) (int, error) {
	var (
		found   int
		inBlock bool
		seen    map[domain.Key]bool
	)
	if i.firstMatch {
		seen = make(map[domain.Key]bool)
	}

	for n, line := range splitLines(text) {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return found, err
			}
		}
		if i.scanMode == domain.ScanHeader && !isHeaderLine(line, &inBlock) {
			logger.Verbose("%s:%d: end of header", name, n+1)
			break
		}

		i.table.Each(line, func(key domain.Key, value string) {
			if seen != nil {
				if seen[key] {
					return
				}
				seen[key] = true
			}
			logger.Verbose("%s:%d: %s = %q", name, n+1, key, value)
			attrs[key] = value
			found++
		})
	}
	return found, nil
}

// splitLines splits text on LF, CRLF and lone CR terminators.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// isHeaderLine reports whether line belongs to a file's leading comment
// block. inBlock tracks an open #| ... |# comment across lines.
func isHeaderLine(line string, inBlock *bool) bool {
	t := strings.TrimSpace(line)
	if *inBlock {
		if strings.Contains(t, "|#") {
			*inBlock = false
		}
		return true
	}

	switch {
	case t == "":
		return true
	case strings.HasPrefix(t, ";"):
		return true
	case strings.HasPrefix(t, "#!"):
		return true
	case strings.HasPrefix(t, "#|"):
		if !strings.Contains(t[2:], "|#") {
			*inBlock = true
		}
		return true
	default:
		return false
	}
}
