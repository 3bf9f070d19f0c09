// Package domain defines the core business entities for pagesearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: A content page with its language and parent chain
//   - IndexRecord: The unit handed to the search engine
//   - QueryRequest: A search request with its behavioural flags
//   - RawHitSet: The engine's ordered hit identifiers
//   - ResultEnvelope: The post-processed search response
//   - Settings: A configuration snapshot
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
