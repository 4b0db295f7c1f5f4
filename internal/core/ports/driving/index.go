package driving

import (
	"context"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// ProgressFunc is called once per Lisp file visited during indexing.
// err is nil when the file was imported.
type ProgressFunc func(path string, err error)

// IndexService imports whole directory trees.
type IndexService interface {
	// Index imports every Lisp source file under root and prunes records
	// for files that no longer exist. Per-file failures are counted in the
	// returned stats and do not stop the run. progress may be nil.
	Index(ctx context.Context, root string, progress ProgressFunc) (*domain.IndexStats, error)
}

// WatchEventKind identifies what a watcher did in response to a change.
type WatchEventKind string

// Watch event kinds.
const (
	WatchImported WatchEventKind = "imported"
	WatchRemoved  WatchEventKind = "removed"
	WatchFailed   WatchEventKind = "failed"
)

// WatchEvent reports one handled file change.
type WatchEvent struct {
	Kind WatchEventKind
	Path string
	Err  error
}

// WatchService keeps the index current while files change.
type WatchService interface {
	// Watch re-imports changed Lisp files under root until ctx is cancelled.
	// onEvent may be nil.
	Watch(ctx context.Context, root string, onEvent func(WatchEvent)) error
}
