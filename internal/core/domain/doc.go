// Package domain defines the core entities for pitrseek.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Window: A time interval searched by bisection
//   - ProbeOutcome: The classified result of one point-in-time query
//   - Progress: A snapshot of the search after a classified probe
//   - SearchRequest / SearchResult: Input and output of one search
//   - DatabaseTarget / DatabaseInfo: The database being searched
//   - SearchRecord: A finished search kept in the history
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
