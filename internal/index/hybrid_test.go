package index

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// stubEmbedder maps exact texts to fixed vectors. Unknown texts embed to
// a neutral direction so they rank behind deliberate matches.
type stubEmbedder struct {
	dims       int
	vectors    map[string][]float32
	batchErr   error
	failAfter  int // fail EmbedBatch calls after this many successes; 0 = never
	batchCalls int
	embedGate  chan struct{} // when non-nil, Embed blocks until closed
}

func (s *stubEmbedder) vector(text string) []float32 {
	if v, ok := s.vectors[text]; ok {
		return v
	}
	v := make([]float32, s.dims)
	v[s.dims-1] = 1
	return v
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.embedGate != nil {
		<-s.embedGate
	}
	return s.vector(text), nil
}

func (s *stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	s.batchCalls++
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	if s.failAfter > 0 && s.batchCalls > s.failAfter {
		return nil, errors.New("quota exceeded")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.vector(t)
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return s.dims }
func (s *stubEmbedder) ModelName() string            { return "stub-embed" }
func (s *stubEmbedder) Ping(_ context.Context) error { return nil }
func (s *stubEmbedder) Close() error                 { return nil }

func chunk(id, text string) domain.Chunk {
	return domain.Chunk{ID: id, EventID: id, Text: text}
}

// A small corpus where "jazz concert Paris" is close to the jazz chunks
// on the dense side and shares terms on the lexical side.
func jazzCorpus() ([]domain.Chunk, *stubEmbedder) {
	chunks := []domain.Chunk{
		chunk("chunk-a", "Jazz concert in Paris with a legendary quartet"),
		chunk("chunk-b", "Paris jazz festival opening concert"),
		chunk("chunk-c", "Football match in Lyon"),
	}
	emb := &stubEmbedder{
		dims: 4,
		vectors: map[string][]float32{
			chunks[0].Text:        {1, 0, 0, 0},
			chunks[1].Text:        {0.9, 0.1, 0, 0},
			chunks[2].Text:        {0, 1, 0, 0},
			"jazz concert Paris":  {1, 0, 0, 0},
			"football match Lyon": {0, 1, 0, 0},
		},
	}
	return chunks, emb
}

func TestSearch_BeforeFirstBuild(t *testing.T) {
	_, emb := jazzCorpus()
	h := New(emb, Config{})

	_, err := h.Search(context.Background(), "anything", 5, 5)
	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestBuildAndSearch(t *testing.T) {
	chunks, emb := jazzCorpus()
	h := New(emb, Config{})

	snap, stats, err := h.Build(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Embedded)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, uint64(1), snap.Version())

	candidates, err := h.Search(context.Background(), "jazz concert Paris", 3, 3)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	// Never more than the union of the two per-method top-k, and every
	// candidate comes from the active snapshot.
	assert.LessOrEqual(t, len(candidates), 6)
	seen := make(map[string]struct{})
	for _, c := range candidates {
		assert.True(t, snap.Contains(c.Chunk.ID))
		_, dup := seen[c.Chunk.ID]
		assert.False(t, dup, "candidate %s duplicated", c.Chunk.ID)
		seen[c.Chunk.ID] = struct{}{}
	}
}

func TestSearch_TopByBothMethodsIsTopFused(t *testing.T) {
	chunks, emb := jazzCorpus()
	h := New(emb, Config{})
	_, _, err := h.Build(context.Background(), chunks)
	require.NoError(t, err)

	// chunk-a is the closest dense match and the strongest term overlap
	// for this query, so it must come out on top of the fused list.
	candidates, err := h.Search(context.Background(), "jazz concert Paris", 3, 3)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)

	top := candidates[0]
	assert.Equal(t, "chunk-a", top.Chunk.ID)
	assert.Equal(t, 1, top.DenseRank)
	assert.Equal(t, 1, top.LexicalRank)

	// Fused ordering is descending.
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].FusedScore, candidates[i].FusedScore)
	}
}

func TestSearch_SingleMethodCandidateOmitsOtherRank(t *testing.T) {
	chunks, emb := jazzCorpus()
	h := New(emb, Config{})
	_, _, err := h.Build(context.Background(), chunks)
	require.NoError(t, err)

	// kDense=0 disables dense retrieval entirely; lexical-only
	// candidates must carry no dense rank.
	candidates, err := h.Search(context.Background(), "jazz concert Paris", 0, 3)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	for _, c := range candidates {
		assert.Equal(t, 0, c.DenseRank)
		assert.Positive(t, c.LexicalRank)
	}
}

func TestBuild_ToleratesPartialEmbeddingFailure(t *testing.T) {
	// 20 chunks fill two batches of 16; the second batch fails, so 4
	// chunks are excluded. With a 0.5 tolerance the build still succeeds.
	var chunks []domain.Chunk
	for i := 0; i < 20; i++ {
		chunks = append(chunks, chunk(fmt.Sprintf("chunk-%02d", i), fmt.Sprintf("event number %d", i)))
	}
	emb := &stubEmbedder{dims: 4, failAfter: 1}

	h := New(emb, Config{MaxEmbedFailure: 0.5})
	snap, stats, err := h.Build(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Failed)
	assert.Equal(t, 16, stats.Embedded)
	assert.Equal(t, 16, snap.Len())
}

func TestBuild_FailsAboveFailureFraction(t *testing.T) {
	chunks, _ := jazzCorpus()
	emb := &stubEmbedder{dims: 4, batchErr: errors.New("connection refused")}

	h := New(emb, Config{MaxEmbedFailure: 0.1})
	_, stats, err := h.Build(context.Background(), chunks)
	assert.ErrorIs(t, err, domain.ErrIndexBuild)
	assert.Equal(t, 3, stats.Failed)
	assert.Nil(t, h.Snapshot())
}

func TestBuild_ReusesExistingEmbeddings(t *testing.T) {
	chunks, emb := jazzCorpus()
	for i := range chunks {
		chunks[i].Embedding = emb.vector(chunks[i].Text)
	}

	h := New(emb, Config{})
	_, stats, err := h.Build(context.Background(), chunks)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Reused)
	assert.Equal(t, 0, stats.Embedded)
	assert.Zero(t, emb.batchCalls)
}

func TestRebuild_InFlightSearchKeepsItsSnapshot(t *testing.T) {
	chunks, emb := jazzCorpus()
	h := New(emb, Config{})
	_, _, err := h.Build(context.Background(), chunks)
	require.NoError(t, err)

	// Block the in-flight query's embedding call until the rebuild has
	// swapped in a new snapshot.
	gate := make(chan struct{})
	emb.embedGate = gate

	type result struct {
		candidates []domain.Candidate
		err        error
	}
	done := make(chan result, 1)
	go func() {
		cands, serr := h.Search(context.Background(), "jazz concert Paris", 3, 3)
		done <- result{cands, serr}
	}()

	// Give the search goroutine time to acquire the old snapshot.
	time.Sleep(50 * time.Millisecond)

	replacement := []domain.Chunk{chunk("chunk-z", "Entirely new corpus")}
	snap2, _, err := h.Build(context.Background(), replacement)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), snap2.Version())

	close(gate)
	res := <-done
	require.NoError(t, res.err)
	require.NotEmpty(t, res.candidates)

	// Results are consistent with the old snapshot, not a mixture.
	for _, c := range res.candidates {
		assert.NotEqual(t, "chunk-z", c.Chunk.ID)
	}

	// A fresh search sees only the new snapshot.
	after, err := h.Search(context.Background(), "Entirely new corpus", 3, 3)
	require.NoError(t, err)
	for _, c := range after {
		assert.Equal(t, "chunk-z", c.Chunk.ID)
	}
}
