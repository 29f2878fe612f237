package services

import (
	"context"
	"math"
	"sort"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

// Reranker rescores a small candidate set with a cross-encoder model,
// independent of the retrieval score scale. It is stateless and
// side-effect-free.
type Reranker struct {
	scorer driven.RelevanceScorer
}

// NewReranker creates a reranker. The scorer is optional; when nil,
// candidates keep their fused retrieval ordering.
func NewReranker(scorer driven.RelevanceScorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Rerank scores each (query, chunk text) pair and returns the top
// candidates, score descending. Ties break by the original fused rank,
// then by chunk ID.
//
// Per-candidate scoring failures (NaN entries) drop the affected
// candidates and are logged, not raised. A whole-call scorer failure
// degrades to the fused retrieval ordering: a degraded ranking is more
// useful than no answer, and the failure stays visible in the logs.
func (r *Reranker) Rerank(
	ctx context.Context, query string, candidates []domain.Candidate, topK int,
) []domain.RankedResult {
	if topK <= 0 || len(candidates) == 0 {
		return []domain.RankedResult{}
	}

	results := r.score(ctx, query, candidates)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].FusedRank != results[j].FusedRank {
			return results[i].FusedRank < results[j].FusedRank
		}
		return results[i].Chunk.ID < results[j].Chunk.ID
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

func (r *Reranker) score(
	ctx context.Context, query string, candidates []domain.Candidate,
) []domain.RankedResult {
	if r.scorer == nil {
		logger.Debug("No relevance scorer configured, keeping fused ordering")
		return fusedFallback(candidates)
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Chunk.Text
	}

	scores, err := r.scorer.Score(ctx, query, texts)
	if err != nil || len(scores) != len(candidates) {
		logger.Warn("Reranking failed, falling back to fused ordering: %v", err)
		return fusedFallback(candidates)
	}

	results := make([]domain.RankedResult, 0, len(candidates))
	dropped := 0
	for i, c := range candidates {
		if math.IsNaN(scores[i]) {
			dropped++
			continue
		}
		results = append(results, domain.RankedResult{
			Chunk:     c.Chunk,
			Score:     scores[i],
			FusedRank: i + 1,
		})
	}
	if dropped > 0 {
		logger.Warn("Partial rerank: dropped %d of %d candidates", dropped, len(candidates))
	}
	return results
}

// fusedFallback carries the fused retrieval scores through unchanged.
func fusedFallback(candidates []domain.Candidate) []domain.RankedResult {
	results := make([]domain.RankedResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.RankedResult{
			Chunk:     c.Chunk,
			Score:     c.FusedScore,
			FusedRank: i + 1,
		}
	}
	return results
}
