package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
	"github.com/custodia-labs/lispmeta/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// excludedDirs are directory names never descended into.
var excludedDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
}

// IndexService imports directory trees in parallel.
type IndexService struct {
	imports driving.ImportService
	store   driven.RecordStore
	workers int
	limiter *rate.Limiter
}

// NewIndexService creates a new index service.
// A zero RatePerSecond leaves imports unthrottled.
func NewIndexService(
	imports driving.ImportService, store driven.RecordStore, settings domain.IndexSettings,
) *IndexService {
	workers := settings.Workers
	if workers <= 0 {
		workers = domain.DefaultAppSettings().Index.Workers
	}

	var limiter *rate.Limiter
	if settings.RatePerSecond > 0 {
		burst := int(settings.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(settings.RatePerSecond), burst)
	}

	return &IndexService{
		imports: imports,
		store:   store,
		workers: workers,
		limiter: limiter,
	}
}

// Index imports every Lisp source file under root and prunes records
// for files that no longer exist there.
func (s *IndexService) Index(
	ctx context.Context, root string, progress driving.ProgressFunc,
) (*domain.IndexStats, error) {
	start := time.Now()
	logger.Section("Index")

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	found, err := collectLispFiles(ctx, abs)
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d Lisp files under %s (%d skipped, %d unreadable)",
		len(found.paths), abs, found.skipped, len(found.unreadable))

	stats := &domain.IndexStats{
		Scanned: len(found.paths),
		Skipped: found.skipped,
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range found.paths {
		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gctx); err != nil {
					return err
				}
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			_, importErr := s.imports.Import(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			if importErr != nil {
				stats.Failed++
				logger.Warn("Import failed: %v", importErr)
			} else {
				stats.Imported++
			}
			if progress != nil {
				progress(path, importErr)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		stats.Duration = time.Since(start)
		return stats, err
	}

	pruned, err := s.prune(ctx, abs, found)
	stats.Pruned = pruned
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}

	logger.Info("Indexed %s: %d imported, %d failed, %d pruned in %s",
		abs, stats.Imported, stats.Failed, stats.Pruned, stats.Duration)
	return stats, nil
}

// prune deletes records under root that the scan did not find. Records
// at or below an unreadable path are kept, since their files may still
// exist.
func (s *IndexService) prune(ctx context.Context, root string, found *scanResult) (int, error) {
	records, err := s.store.List(ctx, dirPrefix(root))
	if err != nil {
		return 0, fmt.Errorf("list records: %w", err)
	}

	keep := make(map[string]bool, len(found.paths))
	for _, p := range found.paths {
		keep[p] = true
	}

	pruned := 0
	for i := range records {
		if keep[records[i].Path] || found.shadowed(records[i].Path) {
			continue
		}
		if err := s.imports.Remove(ctx, records[i].Path); err != nil {
			return pruned, err
		}
		pruned++
	}
	return pruned, nil
}

// scanResult is what one walk of an index root found.
type scanResult struct {
	// paths are the Lisp source files, in lexical order.
	paths []string
	// skipped counts regular files that are not Lisp sources.
	skipped int
	// unreadable are files or directories the walk could not read.
	unreadable []string
}

// shadowed reports whether path is, or lies under, an unreadable path.
func (r *scanResult) shadowed(path string) bool {
	for _, u := range r.unreadable {
		if path == u || strings.HasPrefix(path, dirPrefix(u)) {
			return true
		}
	}
	return false
}

// collectLispFiles walks root in lexical order. Errors below root are
// logged and recorded rather than aborting the walk.
func collectLispFiles(ctx context.Context, root string) (*scanResult, error) {
	found := &scanResult{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Skipping %s: %v", path, err)
			found.unreadable = append(found.unreadable, path)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != root && (excludedDirs[d.Name()] || isHidden(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || isHidden(d.Name()) {
			return nil
		}
		if domain.ContentTypeForPath(path) == "" {
			found.skipped++
			return nil
		}
		found.paths = append(found.paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return found, nil
}

// dirPrefix returns dir with exactly one trailing separator.
func dirPrefix(dir string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}

// isHidden reports whether a file or directory name starts with a dot.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
