// Package domain defines the core entities for lispmeta.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Attributes: the key/value metadata extracted from one file
//   - Key: the closed set of recognised metadata keys
//   - ContentType: the host identifier that gates which files are imported
//   - Record: an imported file as persisted by the host index
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
