// Package index implements the hybrid retrieval index: a dense
// vector index and a sparse lexical index built over the same chunk set,
// published together as an immutable snapshot and queried through
// reciprocal rank fusion.
//
// Fusion is rank-based, not score-based: cosine similarities and BM25
// scores live on incomparable scales. Lexical matching recovers exact
// proper nouns (venue and artist names) that dense embeddings
// under-weight, which is why neither method is used alone.
//
// Rebuilds construct a complete new snapshot off the hot path and swap a
// single atomic pointer. In-flight searches keep the snapshot they
// acquired, so no reader ever observes a half-built index.
package index
