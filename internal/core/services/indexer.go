package services

import (
	"context"
	"fmt"

	"github.com/culturo-labs/culturo-cli/internal/chunker"
	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driving"
	"github.com/culturo-labs/culturo-cli/internal/index"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

// Ensure Indexer implements the interface.
var _ driving.IndexService = (*Indexer)(nil)

// Indexer rebuilds the hybrid index from the stored corpus. The rebuild
// runs entirely off the hot path; queries in flight keep serving from
// the snapshot they acquired.
type Indexer struct {
	events  driven.EventStore
	chunks  driven.ChunkStore
	builder *chunker.Builder
	hybrid  *index.Hybrid
}

// NewIndexer creates an index service. The chunk store is optional; when
// set, embedded chunks are persisted after each rebuild and their
// embeddings are reused across process restarts.
func NewIndexer(events driven.EventStore, chunks driven.ChunkStore, builder *chunker.Builder, hybrid *index.Hybrid) *Indexer {
	return &Indexer{events: events, chunks: chunks, builder: builder, hybrid: hybrid}
}

// Rebuild chunks the stored corpus, embeds it, and publishes a new
// snapshot. Chunk IDs are deterministic, so chunks whose text is
// unchanged since the previous snapshot (or the persisted chunk set)
// keep their embedding and skip the provider round-trip.
func (x *Indexer) Rebuild(ctx context.Context) (*driving.IndexStats, error) {
	logger.Section("Index Rebuild")

	events, err := x.events.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	logger.Debug("Corpus: %d events", len(events))

	chunks, chunkStats := x.builder.Build(events)
	logger.Debug("Chunked into %d chunks (%d records skipped)", chunkStats.Chunks, chunkStats.Skipped)

	// Reuse embeddings for unchanged chunks. Text and embedding move
	// together: a changed text gets a fresh ID path through re-embedding.
	if prev := x.hybrid.Snapshot(); prev != nil {
		reuseFromSnapshot(prev, chunks)
	} else if x.chunks != nil {
		stored, err := x.chunks.ListChunks(ctx)
		if err != nil {
			logger.Warn("Loading stored chunks failed, re-embedding everything: %v", err)
		} else {
			reuseFromStored(stored, chunks)
		}
	}

	snap, buildStats, err := x.hybrid.Build(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	if x.chunks != nil {
		if err := x.chunks.SaveChunks(ctx, snap.Chunks()); err != nil {
			logger.Warn("Persisting chunks failed: %v", err)
		}
	}

	return &driving.IndexStats{
		Events:           len(events),
		Chunks:           snap.Len(),
		SkippedRecords:   chunkStats.Skipped,
		FailedEmbeddings: buildStats.Failed,
		Version:          snap.Version(),
	}, nil
}

func reuseFromSnapshot(prev *index.Snapshot, chunks []domain.Chunk) {
	for i, c := range chunks {
		if old, ok := prev.Chunk(c.ID); ok && old.Text == c.Text {
			chunks[i].Embedding = old.Embedding
		}
	}
}

func reuseFromStored(stored, chunks []domain.Chunk) {
	byID := make(map[string]domain.Chunk, len(stored))
	for _, c := range stored {
		byID[c.ID] = c
	}
	for i, c := range chunks {
		if old, ok := byID[c.ID]; ok && old.Text == c.Text {
			chunks[i].Embedding = old.Embedding
		}
	}
}
