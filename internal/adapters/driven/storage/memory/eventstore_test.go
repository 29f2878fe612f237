package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

func TestEventStore_SaveAndList(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	events := []domain.RawEvent{
		{ID: "b", Title: "Second", Date: time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)},
		{ID: "a", Title: "First", Date: time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, s.SaveEvents(ctx, events))

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEventStore_SaveReplacesByID(t *testing.T) {
	s := NewEventStore()
	ctx := context.Background()

	require.NoError(t, s.SaveEvents(ctx, []domain.RawEvent{{ID: "a", Title: "Old"}}))
	require.NoError(t, s.SaveEvents(ctx, []domain.RawEvent{{ID: "a", Title: "New"}}))

	got, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Title)
}

func TestEventStore_EmptyList(t *testing.T) {
	s := NewEventStore()
	got, err := s.ListEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
