package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *EventStore {
	t.Helper()
	s, err := NewEventStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEventStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	events := []domain.RawEvent{
		{
			ID:          "ev-1",
			Title:       "Jazz Night",
			Description: "An evening of jazz standards.",
			Date:        time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC),
			Location:    "Paris",
			Category:    "concert",
			URL:         "https://example.com/ev-1",
		},
		{
			ID:    "ev-2",
			Title: "Open Air Cinema",
			Date:  time.Date(2025, 7, 1, 21, 30, 0, 0, time.UTC),
		},
	}
	require.NoError(t, s.SaveEvents(ctx, events))

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, events[0], got[0])
	assert.Equal(t, "Open Air Cinema", got[1].Title)
	assert.True(t, got[1].Date.Equal(events[1].Date))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEventStore_UpsertByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := domain.RawEvent{ID: "ev-1", Title: "Old Title", Date: time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveEvents(ctx, []domain.RawEvent{ev}))

	ev.Title = "New Title"
	require.NoError(t, s.SaveEvents(ctx, []domain.RawEvent{ev}))

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New Title", got[0].Title)
}

func TestChunkStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	chunks := []domain.Chunk{
		{
			ID:       "chunk-b",
			EventID:  "ev-1",
			Fragment: 1,
			Text:     "Doors open at seven.",
			Metadata: domain.ChunkMetadata{
				Title:    "Jazz Night",
				Date:     time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC),
				Location: "Paris",
				Category: "concert",
				URL:      "https://example.com/ev-1",
			},
			Embedding: []float32{0.25, -1, 3.5},
		},
		{
			ID:       "chunk-a",
			EventID:  "ev-1",
			Fragment: 0,
			Text:     "An evening of jazz standards.",
			Metadata: domain.ChunkMetadata{
				Title: "Jazz Night",
				Date:  time.Date(2025, 2, 14, 20, 0, 0, 0, time.UTC),
			},
		},
	}
	require.NoError(t, s.SaveChunks(ctx, chunks))

	got, err := s.ListChunks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "chunk-a", got[0].ID)
	assert.Nil(t, got[0].Embedding)
	assert.Equal(t, chunks[0], got[1])
}

func TestChunkStore_SaveReplacesAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []domain.Chunk{
		{ID: "old-1", EventID: "ev-1", Text: "stale", Metadata: domain.ChunkMetadata{Date: time.Now().UTC()}},
		{ID: "old-2", EventID: "ev-2", Text: "stale", Metadata: domain.ChunkMetadata{Date: time.Now().UTC()}},
	}
	require.NoError(t, s.SaveChunks(ctx, first))

	second := []domain.Chunk{
		{ID: "new-1", EventID: "ev-1", Text: "fresh", Metadata: domain.ChunkMetadata{Date: time.Now().UTC()}},
	}
	require.NoError(t, s.SaveChunks(ctx, second))

	got, err := s.ListChunks(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ID)
}

func TestEventStore_EmptyCorpus(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
