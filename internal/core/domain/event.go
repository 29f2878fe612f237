package domain

import "time"

// RawEvent represents a cultural-event listing as supplied by the corpus
// source, before chunking. It is the ingestion boundary's output.
type RawEvent struct {
	// ID is the source-assigned identifier, unique within a corpus snapshot.
	ID string `json:"id"`

	// Title is the human-readable event title.
	Title string `json:"title"`

	// Description is the free-text event description. May be empty.
	Description string `json:"description"`

	// Date is the calendar date the event takes place.
	Date time.Time `json:"date"`

	// Location is a free-text venue or city name.
	Location string `json:"location"`

	// Category is an enum-like label such as "concert" or "exhibition".
	Category string `json:"category"`

	// URL is an optional link to the original listing.
	URL string `json:"url,omitempty"`
}

// ChunkMetadata carries the structured fields of the event a chunk was
// derived from. Filters match against these fields, never against the text.
type ChunkMetadata struct {
	// Title is the title of the source event.
	Title string

	// Date is the calendar date of the source event.
	Date time.Time

	// Location is the venue or city of the source event.
	Location string

	// Category is the category label of the source event.
	Category string

	// URL is the optional listing URL of the source event.
	URL string
}

// Chunk is the atomic retrievable unit: a bounded slice of event text
// plus the structured metadata of the event it came from.
//
// Text and Embedding are never mutated independently. Chunks are value
// copied into immutable index snapshots; any text change goes through a
// rebuild, which re-embeds.
type Chunk struct {
	// ID is a stable identifier derived from the source event ID and the
	// fragment index, so rebuilding an unchanged corpus reproduces it.
	ID string

	// EventID links back to the source RawEvent.
	EventID string

	// Fragment is the ordinal position of this chunk within its event.
	Fragment int

	// Text is the bounded-length content used for embedding and
	// lexical indexing.
	Text string

	// Metadata holds the structured event fields for filtering and
	// source attribution.
	Metadata ChunkMetadata

	// Embedding is the dense vector produced at index-build time.
	Embedding []float32
}
