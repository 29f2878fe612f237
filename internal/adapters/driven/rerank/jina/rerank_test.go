package jina

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T, handler http.HandlerFunc) *RelevanceScorer {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewRelevanceScorer(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return s
}

func TestScore_AlignsWithInputOrder(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rerank", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jazz tonight", req.Query)
		require.Len(t, req.Documents, 3)

		// The API returns results sorted by score, not input order.
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 2, "relevance_score": 0.9},
				{"index": 0, "relevance_score": 0.4},
				{"index": 1, "relevance_score": 0.1},
			},
		})
	})

	scores, err := s.Score(context.Background(), "jazz tonight", []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.InDelta(t, 0.4, scores[0], 1e-9)
	assert.InDelta(t, 0.1, scores[1], 1e-9)
	assert.InDelta(t, 0.9, scores[2], 1e-9)
}

func TestScore_MissingResultIsNaN(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"index": 0, "relevance_score": 0.7},
			},
		})
	})

	scores, err := s.Score(context.Background(), "q", []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.InDelta(t, 0.7, scores[0], 1e-9)
	assert.True(t, math.IsNaN(scores[1]))
}

func TestScore_APIError(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"detail": "bad key"})
	})

	_, err := s.Score(context.Background(), "q", []string{"a"})
	assert.Error(t, err)
}

func TestScore_EmptyInput(t *testing.T) {
	s := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty input")
	})

	scores, err := s.Score(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestNewRelevanceScorer_RequiresAPIKey(t *testing.T) {
	_, err := NewRelevanceScorer(Config{})
	assert.Error(t, err)
}
