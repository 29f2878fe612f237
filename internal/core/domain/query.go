package domain

import (
	"strings"
	"time"
)

// QueryFilters are structured pre-conditions applied to retrieval
// candidates. Zero values mean "no constraint". Filters are a predicate
// over candidate metadata, not over the index structure, so applying them
// twice yields the same surviving set as applying once.
type QueryFilters struct {
	// DateMin is the inclusive lower calendar-date bound.
	DateMin time.Time

	// DateMax is the inclusive upper calendar-date bound.
	DateMax time.Time

	// Category matches the event category exactly (case-insensitive).
	Category string

	// Location matches as a case-insensitive substring of the event
	// location.
	Location string
}

// IsZero reports whether no filter constraint is set.
func (f QueryFilters) IsZero() bool {
	return f.DateMin.IsZero() && f.DateMax.IsZero() && f.Category == "" && f.Location == ""
}

// Validate checks the filters for internal consistency.
func (f QueryFilters) Validate() error {
	if !f.DateMin.IsZero() && !f.DateMax.IsZero() && f.DateMax.Before(f.DateMin) {
		return ErrInvalidQuery
	}
	return nil
}

// Match reports whether the chunk's metadata satisfies every set filter.
func (f QueryFilters) Match(meta ChunkMetadata) bool {
	if !f.DateMin.IsZero() && meta.Date.Before(f.DateMin) {
		return false
	}
	if !f.DateMax.IsZero() && meta.Date.After(f.DateMax) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, meta.Category) {
		return false
	}
	if f.Location != "" &&
		!strings.Contains(strings.ToLower(meta.Location), strings.ToLower(f.Location)) {
		return false
	}
	return true
}

// Candidate is a transient retrieval hit produced by the hybrid index.
// Dense and lexical scores are on different scales and must never be
// compared directly; ordering is by the rank-fused score.
type Candidate struct {
	// Chunk is the retrieved chunk.
	Chunk Chunk

	// DenseScore is the cosine similarity from the dense index.
	// Only meaningful when DenseRank > 0.
	DenseScore float64

	// LexicalScore is the term-overlap score from the sparse index.
	// Only meaningful when LexicalRank > 0.
	LexicalScore float64

	// DenseRank is the 1-based rank in the dense result list,
	// 0 when the dense index did not retrieve this chunk.
	DenseRank int

	// LexicalRank is the 1-based rank in the lexical result list,
	// 0 when the sparse index did not retrieve this chunk.
	LexicalRank int

	// FusedScore is the reciprocal-rank-fusion score used for ordering.
	FusedScore float64
}

// RankedResult is a chunk after cross-encoder scoring. Ordering is by
// Score descending, ties broken by the original fused rank and then by
// chunk ID ascending for determinism.
type RankedResult struct {
	// Chunk is the reranked chunk.
	Chunk Chunk

	// Score is the cross-encoder relevance score.
	Score float64

	// FusedRank is the 1-based position the chunk held in the fused
	// retrieval ordering, kept for deterministic tie-breaking.
	FusedRank int
}

// QueryRequest is a question plus optional structured filters.
type QueryRequest struct {
	// Question is the natural-language question. Must be non-empty.
	Question string

	// Filters constrain candidates by event metadata.
	Filters QueryFilters

	// MaxResults is the number of sources to ground the answer on.
	MaxResults int
}

// Source attributes part of an answer to a specific event chunk.
type Source struct {
	// Title is the source event title.
	Title string `json:"title"`

	// Date is the source event date.
	Date time.Time `json:"date"`

	// Location is the source event location.
	Location string `json:"location"`

	// URL is the optional listing URL.
	URL string `json:"url,omitempty"`

	// RelevanceScore is the chunk's reranker score.
	RelevanceScore float64 `json:"relevance_score"`
}

// QueryResponse is the answer payload returned to the caller.
type QueryResponse struct {
	// Answer is the generated text, grounded on Sources.
	Answer string `json:"answer"`

	// Sources lists the chunks the answer was grounded on.
	Sources []Source `json:"sources"`

	// Confidence is a calibrated score in [0, 1].
	Confidence float64 `json:"confidence"`

	// LatencyMS is the wall-clock query duration in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Cached reports whether the response came from a cache. The core
	// never serves from cache; the external cache wrapper overwrites this.
	Cached bool `json:"cached"`
}
