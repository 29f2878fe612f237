package driven

import "context"

// RelevanceScorer scores (query, text) pairs with a cross-encoder model.
// Higher precision and higher cost than the retrieval stage, so it is
// only ever applied to a small candidate set.
//
// The returned slice is index-aligned with texts. An implementation that
// fails to score an individual pair reports math.NaN at that position;
// the reranker drops those candidates instead of failing the call.
// A non-nil error means the whole call failed.
type RelevanceScorer interface {
	// Score rates each text's relevance to the query, typically in [0, 1].
	Score(ctx context.Context, query string, texts []string) ([]float64, error)

	// ModelName returns the scoring model identifier for logging.
	ModelName() string

	// Close releases resources.
	Close() error
}
