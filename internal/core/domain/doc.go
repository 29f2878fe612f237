// Package domain defines the core business entities for Culturo.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawEvent: An event listing as supplied by the corpus source
//   - Chunk: The atomic retrievable unit of event text plus metadata
//   - Candidate: A transient retrieval hit before reranking
//   - RankedResult: A reranked chunk with its cross-encoder score
//   - QueryRequest / QueryResponse: The question-answering contract
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
