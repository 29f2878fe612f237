package driven

import (
	"context"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// ChunkStore persists embedded chunks between runs so that a fresh
// process can rebuild its in-memory index without re-embedding an
// unchanged corpus. Chunk IDs are deterministic, so a stored chunk whose
// text still matches the rebuilt one carries a valid embedding.
type ChunkStore interface {
	// SaveChunks replaces the stored chunk set.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ListChunks returns all stored chunks.
	ListChunks(ctx context.Context) ([]domain.Chunk, error)
}
