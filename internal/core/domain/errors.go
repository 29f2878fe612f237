package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuery indicates a malformed query: empty question,
	// out-of-range result count, or inconsistent filters. The caller can
	// correct and retry.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrMalformedRecord indicates a raw event lacks the minimum required
	// fields (title and date). Such records are skipped and counted during
	// chunking, never fatal to the batch.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrIndexBuild indicates an index build failed: embedding the corpus
	// failed for more than the tolerated fraction of chunks.
	ErrIndexBuild = errors.New("index build failed")

	// ErrIndexUnavailable indicates no index snapshot has been built yet.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrEmbeddingProvider indicates the embedding provider failed on
	// transport or quota. Propagated as a hard failure of the current
	// operation; no silent fallback.
	ErrEmbeddingProvider = errors.New("embedding provider failure")

	// ErrGeneration indicates the language model call failed. Propagated
	// to the caller: an ungrounded or absent answer is worse than a
	// visible failure.
	ErrGeneration = errors.New("generation failure")
)
