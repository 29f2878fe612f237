// Package chunker normalizes raw event records into retrievable chunks.
//
// Short events become a single chunk. Oversized descriptions are split on
// sentence boundaries, never mid-sentence, and every fragment keeps the
// title, date, and location context so it stays independently retrievable.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

// DefaultBudget is the default character budget per chunk.
const DefaultBudget = domain.DefaultChunkBudget

// Builder splits raw events into bounded-size chunks.
type Builder struct {
	budget int
}

// Stats reports the outcome of a Build call.
type Stats struct {
	// Events is the number of input records.
	Events int

	// Chunks is the number of chunks produced.
	Chunks int

	// Skipped counts malformed records dropped from the batch.
	Skipped int
}

// Option configures the builder.
type Option func(*Builder)

// WithBudget sets the character budget per chunk.
func WithBudget(budget int) Option {
	return func(b *Builder) {
		if budget > 0 {
			b.budget = budget
		}
	}
}

// New creates a chunk builder with the given options.
func New(opts ...Option) *Builder {
	b := &Builder{budget: DefaultBudget}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ChunkID derives the stable identifier for a fragment of an event.
// It is a UUIDv5 over the source event ID and fragment index, so
// rebuilding an unchanged corpus reproduces identical IDs and lets
// incremental rebuilds reuse unchanged embeddings.
func ChunkID(eventID string, fragment int) string {
	name := fmt.Sprintf("culturo:chunk:%s#%d", eventID, fragment)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Build normalizes raw events into chunks. Records lacking the minimum
// required fields (title and date) are skipped and counted, not fatal to
// the batch.
func (b *Builder) Build(events []domain.RawEvent) ([]domain.Chunk, *Stats) {
	stats := &Stats{Events: len(events)}
	chunks := make([]domain.Chunk, 0, len(events))

	for _, ev := range events {
		if err := validate(ev); err != nil {
			logger.Warn("Skipping event %q: %v", ev.ID, err)
			stats.Skipped++
			continue
		}
		chunks = append(chunks, b.chunkEvent(ev)...)
	}

	stats.Chunks = len(chunks)
	return chunks, stats
}

func validate(ev domain.RawEvent) error {
	if strings.TrimSpace(ev.Title) == "" {
		return fmt.Errorf("%w: missing title", domain.ErrMalformedRecord)
	}
	if ev.Date.IsZero() {
		return fmt.Errorf("%w: missing date", domain.ErrMalformedRecord)
	}
	return nil
}

// chunkEvent produces one or more chunks for a single event.
func (b *Builder) chunkEvent(ev domain.RawEvent) []domain.Chunk {
	header := contextHeader(ev)
	meta := domain.ChunkMetadata{
		Title:    ev.Title,
		Date:     ev.Date,
		Location: ev.Location,
		Category: ev.Category,
		URL:      ev.URL,
	}

	desc := strings.TrimSpace(ev.Description)
	if desc == "" || len(header)+len(desc)+1 <= b.budget {
		text := header
		if desc != "" {
			text = header + "\n" + desc
		}
		return []domain.Chunk{{
			ID:       ChunkID(ev.ID, 0),
			EventID:  ev.ID,
			Fragment: 0,
			Text:     text,
			Metadata: meta,
		}}
	}

	bodyBudget := b.budget - len(header) - 1
	fragments := packSentences(splitSentences(desc), bodyBudget)

	chunks := make([]domain.Chunk, 0, len(fragments))
	for i, body := range fragments {
		chunks = append(chunks, domain.Chunk{
			ID:       ChunkID(ev.ID, i),
			EventID:  ev.ID,
			Fragment: i,
			Text:     header + "\n" + body,
			Metadata: meta,
		})
	}
	return chunks
}

// contextHeader folds the structured fields into a text prefix carried by
// every fragment.
func contextHeader(ev domain.RawEvent) string {
	var sb strings.Builder
	sb.WriteString(ev.Title)
	sb.WriteString(" — ")
	sb.WriteString(ev.Date.Format("2006-01-02"))
	if ev.Location != "" {
		sb.WriteString(", ")
		sb.WriteString(ev.Location)
	}
	if ev.Category != "" {
		sb.WriteString(" [")
		sb.WriteString(ev.Category)
		sb.WriteString("]")
	}
	return sb.String()
}

// packSentences greedily fills fragments up to the budget without ever
// splitting a sentence. A single sentence longer than the budget becomes
// its own oversized fragment.
func packSentences(sentences []string, budget int) []string {
	var fragments []string
	var current strings.Builder

	for _, s := range sentences {
		if current.Len() > 0 && current.Len()+len(s)+1 > budget {
			fragments = append(fragments, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(s)
	}
	if current.Len() > 0 {
		fragments = append(fragments, current.String())
	}
	return fragments
}

// splitSentences splits content into sentences by common terminators.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
