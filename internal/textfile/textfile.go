// Package textfile reads small text files into memory with a hard size cap.
//
// Files larger than the cap are rejected before their content is read.
// Content is decoded to UTF-8: a byte order mark selects UTF-8 or UTF-16,
// otherwise the bytes must already be valid UTF-8 unless a fallback
// charset is configured.
package textfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/lispmeta/internal/core/domain"
)

// Option configures a read.
type Option func(*options)

type options struct {
	fallback string
}

// WithFallbackCharset decodes files that are not valid UTF-8 with the
// named IANA charset (for example "macintosh" or "iso-8859-1").
// An empty name disables the fallback.
func WithFallbackCharset(name string) Option {
	return func(o *options) {
		o.fallback = name
	}
}

// Read returns the decoded text content of the file at path.
// maxSize must be positive. Errors are *domain.ImportError values wrapping
// domain.ErrFileNotFound, domain.ErrIO, domain.ErrFileTooLarge or
// domain.ErrDecoding.
func Read(path string, maxSize int64, opts ...Option) (string, error) {
	data, err := ReadBytes(path, maxSize)
	if err != nil {
		return "", err
	}
	text, err := Decode(data, opts...)
	if err != nil {
		return "", &domain.ImportError{Op: "read", Path: path, Err: err}
	}
	return text, nil
}

// ReadBytes returns at most maxSize raw bytes of the file at path.
func ReadBytes(path string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		return nil, &domain.ImportError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("%w: max size must be positive, got %d", domain.ErrInvalidInput, maxSize),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.ImportError{Op: "read", Path: path, Err: classifyOpenError(err)}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &domain.ImportError{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", domain.ErrIO, err)}
	}
	if info.IsDir() {
		return nil, &domain.ImportError{Op: "read", Path: path, Err: fmt.Errorf("%w: is a directory", domain.ErrIO)}
	}
	if info.Size() > maxSize {
		return nil, &domain.ImportError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrFileTooLarge, info.Size(), maxSize),
		}
	}

	// One extra byte detects files that grew after the stat.
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, &domain.ImportError{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", domain.ErrIO, err)}
	}
	if int64(len(data)) > maxSize {
		return nil, &domain.ImportError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("%w: grew past limit of %d bytes while reading", domain.ErrFileTooLarge, maxSize),
		}
	}
	return data, nil
}

// Decode converts raw file bytes to a string.
// Errors wrap domain.ErrDecoding.
func Decode(data []byte, opts ...Option) (string, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		// The rest goes through the same validation as unmarked content.
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	if o.fallback == "" {
		return "", fmt.Errorf("%w: content is not valid UTF-8", domain.ErrDecoding)
	}

	enc, err := ianaindex.IANA.Encoding(o.fallback)
	if err != nil {
		return "", fmt.Errorf("%w: charset %q: %w", domain.ErrDecoding, o.fallback, err)
	}
	if enc == nil {
		return "", fmt.Errorf("%w: charset %q is not supported", domain.ErrDecoding, o.fallback)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: charset %q: %w", domain.ErrDecoding, o.fallback, err)
	}
	return string(out), nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeUTF16 decodes BOM-prefixed UTF-16. Odd-length content is
// truncated and rejected.
func decodeUTF16(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", fmt.Errorf("%w: truncated UTF-16 content", domain.ErrDecoding)
	}
	if !validSurrogates(data[2:], bytes.HasPrefix(data, bomUTF16BE)) {
		return "", fmt.Errorf("%w: unpaired UTF-16 surrogate", domain.ErrDecoding)
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDecoding, err)
	}
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: content is not valid UTF-16", domain.ErrDecoding)
	}
	return string(out), nil
}

// validSurrogates reports whether every surrogate code unit in the even
// length UTF-16 data belongs to a high/low pair. The decoder would
// otherwise substitute U+FFFD silently.
func validSurrogates(data []byte, bigEndian bool) bool {
	unit := func(i int) uint16 {
		if bigEndian {
			return uint16(data[i])<<8 | uint16(data[i+1])
		}
		return uint16(data[i+1])<<8 | uint16(data[i])
	}
	for i := 0; i < len(data); i += 2 {
		u := unit(i)
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+2 >= len(data) {
				return false
			}
			if next := unit(i + 2); next < 0xDC00 || next >= 0xE000 {
				return false
			}
			i += 2
		case u >= 0xDC00 && u < 0xE000:
			return false
		}
	}
	return true
}

func classifyOpenError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrFileNotFound, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrIO, err)
}
