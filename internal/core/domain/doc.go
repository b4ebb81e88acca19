// Package domain defines the core business entities for ragindex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source file read from the corpus
//   - Chunk: A window of words, the unit of retrieval
//   - IndexPoint: The vector index's view of an embedded chunk
//   - QueryResult: A scored payload returned by a similarity search
//   - Run: A pipeline stage execution recorded in the run ledger
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
