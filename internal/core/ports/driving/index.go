package driving

import "context"

// IndexStats summarizes an index build.
type IndexStats struct {
	// Events is the number of corpus events read.
	Events int

	// Chunks is the number of chunks in the new snapshot.
	Chunks int

	// SkippedRecords counts malformed events dropped during chunking.
	SkippedRecords int

	// FailedEmbeddings counts chunks excluded for embedding failures.
	FailedEmbeddings int

	// Version is the snapshot version that was swapped in.
	Version uint64
}

// IndexService rebuilds the hybrid index from the stored corpus.
// Rebuild is a stop-the-world batch operation with respect to the index
// contents, but safe to invoke while queries are in flight: readers keep
// the snapshot they acquired until the new one is swapped in atomically.
type IndexService interface {
	// Rebuild chunks the stored corpus, embeds it, and publishes a new
	// snapshot.
	Rebuild(ctx context.Context) (*IndexStats, error)
}
