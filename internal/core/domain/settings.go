package domain

import "fmt"

const unknownDescription = "Unknown"

// ScanMode controls which lines of a file are matched against field patterns.
type ScanMode string

// Available scan modes.
const (
	// ScanAll matches every line of the file.
	ScanAll ScanMode = "all"

	// ScanHeader stops at the first line that is neither blank nor a comment.
	ScanHeader ScanMode = "header"
)

// IsValid returns true if the scan mode is recognised.
func (m ScanMode) IsValid() bool {
	switch m {
	case ScanAll, ScanHeader:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ScanMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ScanMode) Description() string {
	switch m {
	case ScanAll:
		return "All lines"
	case ScanHeader:
		return "Leading comment block only"
	default:
		return unknownDescription
	}
}

// DefaultMaxFileSize bounds the bytes read from a single file.
const DefaultMaxFileSize int64 = 1 << 20

// AppSettings holds all application settings.
type AppSettings struct {
	Import ImportSettings
	Index  IndexSettings
	Log    LogSettings
}

// ImportSettings configures the metadata importer.
type ImportSettings struct {
	// MaxFileSize is the largest file, in bytes, that will be read.
	MaxFileSize int64

	// ScanMode selects which lines are matched.
	ScanMode ScanMode

	// FirstMatchWins keeps the first value found for a key instead of the last.
	FirstMatchWins bool

	// FallbackCharset is the IANA charset used when a file is not valid UTF-8.
	// Empty makes such files fail to import.
	FallbackCharset string
}

// IndexSettings configures bulk indexing of directory trees.
type IndexSettings struct {
	// Workers is the number of files imported in parallel.
	Workers int

	// RatePerSecond caps imports per second. Zero means unlimited.
	RatePerSecond float64
}

// LogSettings configures diagnostic logging.
type LogSettings struct {
	// Level is a logger level name: verbose, debug or off.
	Level string
}

// DefaultAppSettings returns the default settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Import: ImportSettings{
			MaxFileSize:     DefaultMaxFileSize,
			ScanMode:        ScanAll,
			FirstMatchWins:  false,
			FallbackCharset: "macintosh",
		},
		Index: IndexSettings{
			Workers:       4,
			RatePerSecond: 0,
		},
		Log: LogSettings{
			Level: "off",
		},
	}
}

// Validate checks the settings for values the importer cannot work with.
func (s *AppSettings) Validate() error {
	if s.Import.MaxFileSize <= 0 {
		return fmt.Errorf("%w: max file size must be positive", ErrInvalidInput)
	}
	if !s.Import.ScanMode.IsValid() {
		return fmt.Errorf("%w: unknown scan mode %q", ErrInvalidInput, s.Import.ScanMode)
	}
	if s.Index.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidInput)
	}
	if s.Index.RatePerSecond < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidInput)
	}
	return nil
}
