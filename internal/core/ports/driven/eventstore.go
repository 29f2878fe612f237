package driven

import (
	"context"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// EventStore persists the raw-event corpus between runs. The ingestion
// job that pulls listings from the external events directory writes here;
// index rebuilds read the full corpus back.
type EventStore interface {
	// SaveEvents stores or replaces events by ID.
	SaveEvents(ctx context.Context, events []domain.RawEvent) error

	// ListEvents returns the full corpus.
	ListEvents(ctx context.Context) ([]domain.RawEvent, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
