// Package domain defines the core business entities for repocache.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A configured catalog endpoint
//   - Repository: The parsed document fetched from a source
//   - CacheEntry: A source paired with its last fetched repository
//   - SweepReport: What a single refresh sweep did
//   - RefreshRecord: Persisted bookkeeping for completed sweeps
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
