package chunker

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

func event(id, title, desc string) domain.RawEvent {
	return domain.RawEvent{
		ID:          id,
		Title:       title,
		Description: desc,
		Date:        time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
		Location:    "Paris",
		Category:    "concert",
		URL:         "https://example.com/" + id,
	}
}

func TestBuild_SingleChunkPerShortEvent(t *testing.T) {
	b := New()
	chunks, stats := b.Build([]domain.RawEvent{
		event("ev-1", "Jazz Night", "An evening of jazz standards."),
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, 1, stats.Events)
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, 0, stats.Skipped)

	c := chunks[0]
	assert.Equal(t, "ev-1", c.EventID)
	assert.Equal(t, 0, c.Fragment)
	assert.Contains(t, c.Text, "Jazz Night")
	assert.Contains(t, c.Text, "2025-02-14")
	assert.Contains(t, c.Text, "Paris")
	assert.Contains(t, c.Text, "An evening of jazz standards.")
	assert.Equal(t, "Jazz Night", c.Metadata.Title)
	assert.Equal(t, "concert", c.Metadata.Category)
}

func TestBuild_SplitsOversizedOnSentenceBoundaries(t *testing.T) {
	// 40 sentences of ~30 chars against a 300-char budget forces a split.
	sentence := "The festival features many acts."
	desc := strings.TrimSpace(strings.Repeat(sentence+" ", 40))

	b := New(WithBudget(300))
	chunks, stats := b.Build([]domain.RawEvent{event("ev-2", "Summer Festival", desc)})

	require.Greater(t, len(chunks), 1)
	assert.Equal(t, len(chunks), stats.Chunks)

	for i, c := range chunks {
		assert.Equal(t, i, c.Fragment)
		// Every fragment keeps the retrievable context prefix.
		assert.True(t, strings.HasPrefix(c.Text, "Summer Festival — 2025-02-14, Paris [concert]"),
			"fragment %d lost its context header: %q", i, c.Text)
		// No fragment ends mid-sentence.
		body := c.Text[strings.Index(c.Text, "\n")+1:]
		assert.True(t, strings.HasSuffix(body, "."), "fragment %d ends mid-sentence: %q", i, body)
	}

	// All sentences survive the split.
	var joined strings.Builder
	for _, c := range chunks {
		joined.WriteString(c.Text[strings.Index(c.Text, "\n")+1:])
		joined.WriteByte(' ')
	}
	assert.Equal(t, 40, strings.Count(joined.String(), sentence))
}

func TestBuild_DeterministicIDs(t *testing.T) {
	events := []domain.RawEvent{
		event("ev-1", "Jazz Night", "An evening of jazz standards."),
		event("ev-2", "Summer Festival", strings.Repeat("A long sentence about music. ", 60)),
	}

	b := New(WithBudget(400))
	first, _ := b.Build(events)
	second, _ := b.Build(events)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}

	// IDs are unique across the corpus.
	seen := make(map[string]struct{})
	for _, c := range first {
		_, dup := seen[c.ID]
		assert.False(t, dup, "duplicate chunk id %s", c.ID)
		seen[c.ID] = struct{}{}
	}
}

func TestBuild_SkipsMalformedRecords(t *testing.T) {
	missingTitle := event("ev-3", "", "No title here.")
	missingDate := event("ev-4", "Untimed Event", "No date here.")
	missingDate.Date = time.Time{}

	b := New()
	chunks, stats := b.Build([]domain.RawEvent{
		missingTitle,
		event("ev-5", "Valid Event", "Fine."),
		missingDate,
	})

	require.Len(t, chunks, 1)
	assert.Equal(t, "ev-5", chunks[0].EventID)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 3, stats.Events)
}

func TestBuild_EmptyDescription(t *testing.T) {
	b := New()
	chunks, stats := b.Build([]domain.RawEvent{event("ev-6", "Silent Disco", "")})

	require.Len(t, chunks, 1)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, "Silent Disco — 2025-02-14, Paris [concert]", chunks[0].Text)
}

func TestChunkID_StableAndDistinct(t *testing.T) {
	assert.Equal(t, ChunkID("ev-1", 0), ChunkID("ev-1", 0))
	assert.NotEqual(t, ChunkID("ev-1", 0), ChunkID("ev-1", 1))
	assert.NotEqual(t, ChunkID("ev-1", 0), ChunkID("ev-2", 0))
}
