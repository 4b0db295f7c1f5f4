package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driven"
	"github.com/custodia-labs/lispmeta/internal/core/ports/driving"
	"github.com/custodia-labs/lispmeta/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driving.WatchService = (*Watcher)(nil)

// Watcher re-imports Lisp files as they change on disk.
type Watcher struct {
	imports driving.ImportService
	store   driven.RecordStore
}

// NewWatcher creates a watcher that imports through imports. store is
// consulted when a directory disappears, to drop the records below it.
func NewWatcher(imports driving.ImportService, store driven.RecordStore) *Watcher {
	return &Watcher{imports: imports, store: store}
}

// Watch handles file changes under root until ctx is cancelled.
// fsnotify is not recursive, so every directory in the tree is watched
// and new directories are added as they appear.
func (w *Watcher) Watch(ctx context.Context, root string, onEvent func(driving.WatchEvent)) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := addTree(fsw.Add, abs); err != nil {
		return err
	}
	logger.Info("Watching %s", abs)

	addDir := func(dir string) error { return addTree(fsw.Add, dir) }

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			for _, we := range w.handleEvent(ctx, event, addDir) {
				if onEvent != nil {
					onEvent(we)
				}
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// handleEvent applies one filesystem event to the index and returns what
// changed. Irrelevant events yield nothing.
func (w *Watcher) handleEvent(
	ctx context.Context, event fsnotify.Event, addDir func(string) error,
) []driving.WatchEvent {
	if isHidden(filepath.Base(event.Name)) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil {
			// Gone before we got to it; a Remove event follows.
			return nil
		}
		if info.IsDir() {
			if event.Has(fsnotify.Create) && addDir != nil && !excludedDirs[info.Name()] {
				if err := addDir(event.Name); err != nil {
					logger.Warn("Cannot watch %s: %v", event.Name, err)
				}
			}
			return nil
		}
		if domain.ContentTypeForPath(event.Name) == "" {
			return nil
		}
		if _, err := w.imports.Import(ctx, event.Name); err != nil {
			return []driving.WatchEvent{{Kind: driving.WatchFailed, Path: event.Name, Err: err}}
		}
		return []driving.WatchEvent{{Kind: driving.WatchImported, Path: event.Name}}

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if domain.ContentTypeForPath(event.Name) == "" {
			// Possibly a directory; it can no longer be stat'ed.
			return w.removeTree(ctx, event.Name)
		}
		return []driving.WatchEvent{w.remove(ctx, event.Name)}
	}

	return nil
}

// removeTree drops the records of every file below dir.
func (w *Watcher) removeTree(ctx context.Context, dir string) []driving.WatchEvent {
	if w.store == nil {
		return nil
	}
	records, err := w.store.List(ctx, dirPrefix(dir))
	if err != nil {
		return []driving.WatchEvent{{Kind: driving.WatchFailed, Path: dir, Err: fmt.Errorf("list records: %w", err)}}
	}

	events := make([]driving.WatchEvent, 0, len(records))
	for i := range records {
		events = append(events, w.remove(ctx, records[i].Path))
	}
	return events
}

func (w *Watcher) remove(ctx context.Context, path string) driving.WatchEvent {
	if err := w.imports.Remove(ctx, path); err != nil {
		return driving.WatchEvent{Kind: driving.WatchFailed, Path: path, Err: err}
	}
	return driving.WatchEvent{Kind: driving.WatchRemoved, Path: path}
}

// addTree calls add for root and every non-excluded directory below it.
func addTree(add func(string) error, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (excludedDirs[d.Name()] || isHidden(d.Name())) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
