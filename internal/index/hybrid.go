package index

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

// Ensure Hybrid implements the retriever port.
var _ driven.Retriever = (*Hybrid)(nil)

// embedBatchSize is the number of chunk texts sent per embedding call.
// Failures are excluded at batch granularity.
const embedBatchSize = 16

// Config tunes the hybrid index.
type Config struct {
	// RRFConstant is the c in 1/(c+rank). Larger values flatten the
	// contribution of top ranks so neither method dominates.
	RRFConstant int

	// MaxEmbedFailure is the tolerated fraction of chunks whose
	// embedding may fail during a build before the build itself fails.
	MaxEmbedFailure float64
}

// BuildStats reports the outcome of a Build call.
type BuildStats struct {
	// Total is the number of input chunks.
	Total int

	// Embedded counts chunks embedded during this build.
	Embedded int

	// Reused counts chunks that arrived with a valid embedding.
	Reused int

	// Failed counts chunks excluded because embedding them failed.
	Failed int
}

// Hybrid owns the dense and sparse indices over the event chunk corpus
// and the atomically-swapped active snapshot.
type Hybrid struct {
	embedder driven.EmbeddingProvider
	cfg      Config

	active  atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// New creates a hybrid index backed by the given embedding provider.
func New(embedder driven.EmbeddingProvider, cfg Config) *Hybrid {
	if cfg.RRFConstant <= 0 {
		cfg.RRFConstant = domain.DefaultRRFConstant
	}
	if cfg.MaxEmbedFailure <= 0 {
		cfg.MaxEmbedFailure = domain.DefaultMaxEmbedFailure
	}
	return &Hybrid{embedder: embedder, cfg: cfg}
}

// Snapshot returns the active snapshot, or nil before the first build.
func (h *Hybrid) Snapshot() *Snapshot {
	return h.active.Load()
}

// Build embeds the chunks, constructs both index structures over the same
// chunk set, and atomically publishes the result as the new active
// snapshot. Chunks arriving with a valid embedding (from an unchanged
// prior snapshot) are not re-embedded.
//
// Individual embedding failures exclude the affected chunks and are
// logged; the build fails with domain.ErrIndexBuild only when the failed
// fraction exceeds Config.MaxEmbedFailure.
func (h *Hybrid) Build(ctx context.Context, chunks []domain.Chunk) (*Snapshot, *BuildStats, error) {
	stats := &BuildStats{Total: len(chunks)}
	dim := h.embedder.Dimensions()

	var embedded []domain.Chunk
	var pending []domain.Chunk
	for _, c := range chunks {
		if len(c.Embedding) == dim {
			stats.Reused++
			embedded = append(embedded, c)
		} else {
			pending = append(pending, c)
		}
	}

	for start := 0; start < len(pending); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := h.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("Embedding batch of %d chunks failed: %v", len(batch), err)
			stats.Failed += len(batch)
			continue
		}

		for i, c := range batch {
			if i >= len(vectors) || len(vectors[i]) != dim {
				logger.Warn("Embedding for chunk %s has wrong dimensionality", c.ID)
				stats.Failed++
				continue
			}
			c.Embedding = vectors[i]
			embedded = append(embedded, c)
			stats.Embedded++
		}
	}

	if stats.Total > 0 {
		failedFraction := float64(stats.Failed) / float64(stats.Total)
		if failedFraction > h.cfg.MaxEmbedFailure {
			return nil, stats, fmt.Errorf("%w: embedding failed for %d of %d chunks",
				domain.ErrIndexBuild, stats.Failed, stats.Total)
		}
	}

	snap := &Snapshot{
		version: h.version.Add(1),
		chunks:  make(map[string]domain.Chunk, len(embedded)),
		dense:   newDenseIndex(dim),
		sparse:  newSparseIndex(),
	}
	for _, c := range embedded {
		snap.chunks[c.ID] = c
		snap.dense.add(c.ID, c.Embedding)
		snap.sparse.add(c.ID, c.Text)
	}

	h.active.Store(snap)
	logger.Info("Published index snapshot v%d: %d chunks (%d embedded, %d reused, %d failed)",
		snap.version, len(embedded), stats.Embedded, stats.Reused, stats.Failed)

	return snap, stats, nil
}

// Search runs dense and lexical retrieval independently against a single
// snapshot acquired at call start, then fuses the two ranked lists by
// reciprocal rank. The result is the deduplicated union ordered by fused
// score descending.
func (h *Hybrid) Search(ctx context.Context, query string, kDense, kLexical int) ([]domain.Candidate, error) {
	snap := h.active.Load()
	if snap == nil {
		return nil, domain.ErrIndexUnavailable
	}

	queryVec, err := h.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	denseHits := snap.dense.search(queryVec, kDense)
	lexicalHits := snap.sparse.search(query, kLexical)
	logger.Debug("Retrieval: %d dense hits, %d lexical hits", len(denseHits), len(lexicalHits))

	return h.fuse(snap, denseHits, lexicalHits), nil
}

// fuse merges the two ranked lists with reciprocal rank fusion. A chunk
// retrieved by only one method contributes no rank term for the other.
func (h *Hybrid) fuse(snap *Snapshot, denseHits []denseHit, lexicalHits []lexicalHit) []domain.Candidate {
	c := float64(h.cfg.RRFConstant)
	byID := make(map[string]*domain.Candidate, len(denseHits)+len(lexicalHits))

	for i, hit := range denseHits {
		chunk, ok := snap.Chunk(hit.chunkID)
		if !ok {
			continue
		}
		byID[hit.chunkID] = &domain.Candidate{
			Chunk:      chunk,
			DenseScore: hit.score,
			DenseRank:  i + 1,
			FusedScore: 1 / (c + float64(i+1)),
		}
	}

	for i, hit := range lexicalHits {
		rrf := 1 / (c + float64(i+1))
		if cand, ok := byID[hit.chunkID]; ok {
			cand.LexicalScore = hit.score
			cand.LexicalRank = i + 1
			cand.FusedScore += rrf
			continue
		}
		chunk, ok := snap.Chunk(hit.chunkID)
		if !ok {
			continue
		}
		byID[hit.chunkID] = &domain.Candidate{
			Chunk:        chunk,
			LexicalScore: hit.score,
			LexicalRank:  i + 1,
			FusedScore:   rrf,
		}
	}

	fused := make([]domain.Candidate, 0, len(byID))
	for _, cand := range byID {
		fused = append(fused, *cand)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].FusedScore != fused[j].FusedScore {
			return fused[i].FusedScore > fused[j].FusedScore
		}
		return fused[i].Chunk.ID < fused[j].Chunk.ID
	})

	return fused
}
