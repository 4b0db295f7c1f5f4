package domain

import "time"

// Record is an imported file as held in the host index.
type Record struct {
	// ID is the unique identifier for the record.
	ID string

	// Path is the absolute file path. Unique within an index.
	Path string

	// ContentType is the type the file was imported as.
	ContentType ContentType

	// Attributes holds the metadata extracted from the file header.
	Attributes Attributes

	// Size is the file size in bytes at import time.
	Size int64

	// ModTime is the file modification time at import time.
	ModTime time.Time

	// ImportedAt is when the record was last written.
	ImportedAt time.Time
}

// IndexStats summarises one indexing run over a directory tree.
type IndexStats struct {
	// Scanned counts Lisp files found under the root.
	Scanned int

	// Imported counts files whose metadata was stored.
	Imported int

	// Failed counts files whose import failed.
	Failed int

	// Skipped counts files ignored because they are not Lisp source.
	Skipped int

	// Pruned counts records removed because their file disappeared.
	Pruned int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}
