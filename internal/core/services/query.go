package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driving"
	"github.com/culturo-labs/culturo-cli/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// Confidence calibration. The base plus top-score term lands grounded
// answers in roughly the 0.71-0.87 band observed for well-matched
// queries; the agreement bonus rewards both retrieval methods surfacing
// the same top chunk.
const (
	confidenceBase      = 0.25
	confidenceTopWeight = 0.55
	confidenceAgreement = 0.15

	// noResultsConfidence is the fixed confidence of a well-formed
	// "nothing matched" response.
	noResultsConfidence = 0.05

	noResultsAnswer = "No events matching the question and filters were found."
)

// Generation defaults. Low temperature: the answer should restate the
// retrieved listings, not improvise around them.
const (
	generateMaxTokens   = 512
	generateTemperature = 0.2
)

// QueryService coordinates the full question-answering pipeline:
// retrieval, filtering, reranking, prompt assembly, generation, and
// confidence scoring.
type QueryService struct {
	retriever driven.Retriever
	reranker  *Reranker
	llm       driven.LanguageModel

	maxResultsCap   int
	overfetchFactor int
}

// NewQueryService creates a query service.
func NewQueryService(
	retriever driven.Retriever,
	reranker *Reranker,
	llm driven.LanguageModel,
	settings domain.Settings,
) *QueryService {
	resultsCap := settings.MaxResultsCap
	if resultsCap < 1 {
		resultsCap = domain.DefaultMaxResultsCap
	}
	overfetch := settings.OverfetchFactor
	if overfetch < 1 {
		overfetch = domain.DefaultOverfetchFactor
	}
	return &QueryService{
		retriever:       retriever,
		reranker:        reranker,
		llm:             llm,
		maxResultsCap:   resultsCap,
		overfetchFactor: overfetch,
	}
}

// Query answers a natural-language question about the event corpus.
func (s *QueryService) Query(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	start := time.Now()
	logger.Section("Query Execution")

	if err := s.validate(&req); err != nil {
		return nil, err
	}
	logger.Debug("Question: %q, max results: %d", req.Question, req.MaxResults)

	// Over-fetch to survive filtering and reranking attrition.
	k := req.MaxResults * s.overfetchFactor
	candidates, err := s.retriever.Search(ctx, req.Question, k, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve candidates: %w", err)
	}
	logger.Debug("Retrieved %d candidates", len(candidates))

	filtered := applyFilters(candidates, req.Filters)
	logger.Debug("After filters: %d candidates", len(filtered))

	if len(filtered) == 0 {
		logger.Info("No candidates survived filtering")
		return &domain.QueryResponse{
			Answer:     noResultsAnswer,
			Sources:    []domain.Source{},
			Confidence: noResultsConfidence,
			LatencyMS:  time.Since(start).Milliseconds(),
		}, nil
	}

	ranked := s.reranker.Rerank(ctx, req.Question, filtered, req.MaxResults)
	logger.Debug("Reranked to %d results", len(ranked))

	prompt := buildPrompt(req.Question, ranked)
	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrGeneration) {
			err = fmt.Errorf("%w: %v", domain.ErrGeneration, err)
		}
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	confidence := computeConfidence(ranked, filtered)
	logger.Info("Answered with %d sources, confidence %.2f", len(ranked), confidence)

	return &domain.QueryResponse{
		Answer:     answer,
		Sources:    toSources(ranked),
		Confidence: confidence,
		LatencyMS:  time.Since(start).Milliseconds(),
	}, nil
}

func (s *QueryService) validate(req *domain.QueryRequest) error {
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question must not be empty", domain.ErrInvalidQuery)
	}
	if req.MaxResults == 0 {
		req.MaxResults = domain.DefaultMaxResults
	}
	if req.MaxResults < 1 || req.MaxResults > s.maxResultsCap {
		return fmt.Errorf("%w: max results must be in [1, %d], got %d",
			domain.ErrInvalidQuery, s.maxResultsCap, req.MaxResults)
	}
	if err := req.Filters.Validate(); err != nil {
		return fmt.Errorf("%w: date_min must not be after date_max", domain.ErrInvalidQuery)
	}
	return nil
}

// applyFilters keeps candidates whose metadata satisfies the filters,
// preserving the fused ordering. The predicate is pure, so applying it
// twice yields the same surviving set.
func applyFilters(candidates []domain.Candidate, filters domain.QueryFilters) []domain.Candidate {
	if filters.IsZero() {
		return candidates
	}
	filtered := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if filters.Match(c.Chunk.Metadata) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// computeConfidence combines the top rerank score, normalized to [0, 1],
// with a bonus when dense and lexical retrieval agreed on the top result.
func computeConfidence(ranked []domain.RankedResult, candidates []domain.Candidate) float64 {
	if len(ranked) == 0 {
		return noResultsConfidence
	}

	top := ranked[0].Score
	if top < 0 {
		top = 0
	}
	if top > 1 {
		top = 1
	}

	confidence := confidenceBase + confidenceTopWeight*top

	for _, c := range candidates {
		if c.Chunk.ID == ranked[0].Chunk.ID {
			if c.DenseRank == 1 && c.LexicalRank == 1 {
				confidence += confidenceAgreement
			}
			break
		}
	}

	if confidence > 1 {
		confidence = 1
	}
	if confidence < 0 {
		confidence = 0
	}
	return confidence
}

func toSources(ranked []domain.RankedResult) []domain.Source {
	sources := make([]domain.Source, len(ranked))
	for i, r := range ranked {
		meta := r.Chunk.Metadata
		sources[i] = domain.Source{
			Title:          meta.Title,
			Date:           meta.Date,
			Location:       meta.Location,
			URL:            meta.URL,
			RelevanceScore: r.Score,
		}
	}
	return sources
}
