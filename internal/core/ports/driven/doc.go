// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingProvider: Converts text into dense vectors
//   - LanguageModel: Generates the grounded answer text
//   - Retriever: Hybrid candidate retrieval over the active snapshot
//   - EventStore: Raw-event corpus persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RelevanceScorer: Cross-encoder reranking. Without it, results keep
//     their fused retrieval ordering.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
