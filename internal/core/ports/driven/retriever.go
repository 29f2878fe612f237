package driven

import (
	"context"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// Retriever performs hybrid candidate retrieval over the active index
// snapshot. Implemented by the hybrid index; mocked in orchestrator tests.
type Retriever interface {
	// Search runs dense and lexical retrieval independently, each
	// returning its own top-k, and fuses them by reciprocal rank.
	// The result is the deduplicated union ordered by fused score
	// descending. The whole call observes a single snapshot.
	Search(ctx context.Context, query string, kDense, kLexical int) ([]domain.Candidate, error)
}
