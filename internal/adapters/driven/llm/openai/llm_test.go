package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
)

func newTestModel(t *testing.T, handler http.HandlerFunc) *LanguageModel {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m, err := NewLanguageModel(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return m
}

func TestNewLanguageModel_RequiresAPIKey(t *testing.T) {
	_, err := NewLanguageModel(Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
}

func TestGenerate_SendsPromptAndOptions(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "What is on tonight?", req.Messages[0].Content)
		assert.Equal(t, 256, req.MaxTokens)
		assert.InDelta(t, 0.2, req.Temperature, 1e-9)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "A jazz concert."}},
			},
		})
	})

	got, err := m.Generate(context.Background(), "What is on tonight?", driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "A jazz concert.", got)
}

func TestGenerate_APIErrorWrapsSentinel(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "type": "rate_limit"},
		})
	})

	_, err := m.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerate_NoChoices(t *testing.T) {
	m := newTestModel(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	_, err := m.Generate(context.Background(), "prompt", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrGeneration)
}
