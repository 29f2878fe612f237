// Package jina provides a cross-encoder relevance scorer backed by the
// Jina reranker API.
package jina

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
)

// Ensure RelevanceScorer implements the interface.
var _ driven.RelevanceScorer = (*RelevanceScorer)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.jina.ai/v1"
	DefaultModel   = "jina-reranker-v2-base-multilingual"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Jina relevance scorer.
type Config struct {
	// APIKey is the Jina API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.jina.ai/v1).
	BaseURL string

	// Model is the reranker model to use.
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// RelevanceScorer scores query/text pairs with a hosted cross-encoder.
type RelevanceScorer struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// rerankRequest is the Jina /rerank request format.
type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

// rerankResponse is the Jina /rerank response format.
type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
	Detail string `json:"detail,omitempty"`
}

// NewRelevanceScorer creates a new Jina relevance scorer.
func NewRelevanceScorer(cfg Config) (*RelevanceScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("jina: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &RelevanceScorer{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Score returns one relevance score per text, aligned with the input order.
// Texts the API omits from its response come back as NaN so the caller can
// drop them individually instead of failing the whole batch.
func (s *RelevanceScorer) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := rerankRequest{
		Model:     s.model,
		Query:     query,
		Documents: texts,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/rerank",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jina status %d: %s", resp.StatusCode, string(body))
	}

	var rerankResp rerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	scores := make([]float64, len(texts))
	for i := range scores {
		scores[i] = math.NaN()
	}
	for _, r := range rerankResp.Results {
		if r.Index >= 0 && r.Index < len(scores) {
			scores[r.Index] = r.RelevanceScore
		}
	}

	return scores, nil
}

// ModelName returns the name of the reranker model being used.
func (s *RelevanceScorer) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *RelevanceScorer) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
