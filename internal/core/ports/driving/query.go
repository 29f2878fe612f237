package driving

import (
	"context"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// QueryService answers natural-language questions about the event corpus.
type QueryService interface {
	// Query retrieves, filters, reranks, and synthesizes a grounded
	// answer with traceable sources and a calibrated confidence.
	// An empty post-filter candidate set is a valid, non-error outcome.
	Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
}
