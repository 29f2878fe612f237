// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LanguageModel produces the grounded answer text from an assembled prompt.
//
// Implementations may include:
//   - OpenAI (GPT-4o, GPT-4o-mini)
//   - Ollama (local models)
//   - Any OpenAI-compatible inference server
//
// Call failures are reported wrapped in domain.ErrGeneration and surface
// to the caller as a hard failure of the current query. The core never
// synthesizes a fallback answer. Retry and backoff policy belongs to the
// transport wrapper, not here.
type LanguageModel interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
