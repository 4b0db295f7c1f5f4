package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Import Errors.

	// ErrUnsupportedContentType indicates the content type is not Lisp source.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrFileNotFound indicates the file to import does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrIO indicates the file could not be opened or read.
	ErrIO = errors.New("i/o error")

	// ErrFileTooLarge indicates the file exceeds the configured maximum size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrDecoding indicates the file bytes are not valid text in the assumed encoding.
	ErrDecoding = errors.New("decoding error")
)

// ImportError records a failed import and the file it concerned.
// Err is one of the import sentinels, possibly wrapping an underlying cause.
type ImportError struct {
	Op          string
	Path        string
	ContentType ContentType
	Err         error
}

func (e *ImportError) Error() string {
	if e.ContentType != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Path, e.ContentType, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ImportError) Unwrap() error {
	return e.Err
}
