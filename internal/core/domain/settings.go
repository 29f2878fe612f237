package domain

import "fmt"

// Default tuning values. The retrieval defaults follow the usual
// two-stage retrieve-then-rerank setup: cheap high-recall retrieval,
// expensive high-precision reranking over the survivors.
const (
	// DefaultMaxResults is the default number of answer sources.
	DefaultMaxResults = 5

	// DefaultMaxResultsCap bounds MaxResults in a query request.
	DefaultMaxResultsCap = 20

	// DefaultOverfetchFactor is how many times MaxResults each retrieval
	// method fetches, to survive filtering and reranking attrition.
	DefaultOverfetchFactor = 4

	// DefaultRRFConstant dampens dominance of either retrieval method in
	// reciprocal rank fusion.
	DefaultRRFConstant = 60

	// DefaultChunkBudget is the character budget per chunk.
	DefaultChunkBudget = 1000

	// DefaultMaxEmbedFailure is the tolerated fraction of chunks whose
	// embedding may fail during an index build.
	DefaultMaxEmbedFailure = 0.1
)

// Settings holds the tunable application configuration.
type Settings struct {
	// Provider selects the embedding/LLM backend: "openai" or "ollama".
	Provider string `toml:"provider"`

	// EmbeddingModel overrides the provider's default embedding model.
	EmbeddingModel string `toml:"embedding_model"`

	// LLMModel overrides the provider's default generation model.
	LLMModel string `toml:"llm_model"`

	// RerankModel overrides the default cross-encoder model.
	RerankModel string `toml:"rerank_model"`

	// MaxResultsCap bounds the per-query MaxResults.
	MaxResultsCap int `toml:"max_results_cap"`

	// OverfetchFactor is the retrieval over-fetch multiplier.
	OverfetchFactor int `toml:"overfetch_factor"`

	// RRFConstant is the reciprocal rank fusion constant.
	RRFConstant int `toml:"rrf_constant"`

	// ChunkBudget is the character budget per chunk.
	ChunkBudget int `toml:"chunk_budget"`

	// MaxEmbedFailure is the tolerated embedding failure fraction
	// during index builds.
	MaxEmbedFailure float64 `toml:"max_embed_failure"`
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Provider:        "openai",
		MaxResultsCap:   DefaultMaxResultsCap,
		OverfetchFactor: DefaultOverfetchFactor,
		RRFConstant:     DefaultRRFConstant,
		ChunkBudget:     DefaultChunkBudget,
		MaxEmbedFailure: DefaultMaxEmbedFailure,
	}
}

// Validate checks the settings for internal consistency.
func (s Settings) Validate() error {
	if s.Provider != "openai" && s.Provider != "ollama" {
		return fmt.Errorf("unknown provider %q", s.Provider)
	}
	if s.MaxResultsCap < 1 {
		return fmt.Errorf("max_results_cap must be at least 1, got %d", s.MaxResultsCap)
	}
	if s.OverfetchFactor < 1 {
		return fmt.Errorf("overfetch_factor must be at least 1, got %d", s.OverfetchFactor)
	}
	if s.RRFConstant < 1 {
		return fmt.Errorf("rrf_constant must be at least 1, got %d", s.RRFConstant)
	}
	if s.ChunkBudget < 100 {
		return fmt.Errorf("chunk_budget must be at least 100, got %d", s.ChunkBudget)
	}
	if s.MaxEmbedFailure < 0 || s.MaxEmbedFailure > 1 {
		return fmt.Errorf("max_embed_failure must be in [0, 1], got %g", s.MaxEmbedFailure)
	}
	return nil
}
