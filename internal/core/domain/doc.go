// Package domain defines the core business entities for the PageLens
// Knowledge Base.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A user-owned knowledge document
//   - Chunk: A retrieval unit within a document
//   - RetrievedChunk: A scored chunk selected for a query
//   - Answer: A grounded answer with its coverage classification
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
