package index

import (
	"math"
	"sort"

	"github.com/culturo-labs/culturo-cli/internal/tokenizer"
)

// BM25 parameters. k1 controls term-frequency saturation, b controls
// document-length normalization.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// lexicalHit is a sparse-retrieval result.
type lexicalHit struct {
	chunkID string
	score   float64
}

// sparseIndex is an in-memory inverted index with BM25 scoring.
type sparseIndex struct {
	// postings maps term -> chunkID -> term frequency.
	postings map[string]map[string]int

	// docLen maps chunkID -> token count.
	docLen map[string]int

	totalLen int
}

func newSparseIndex() *sparseIndex {
	return &sparseIndex{
		postings: make(map[string]map[string]int),
		docLen:   make(map[string]int),
	}
}

// add indexes a chunk's text under its ID.
func (s *sparseIndex) add(chunkID, text string) {
	freqs := tokenizer.TermFrequencies(text)

	length := 0
	for term, tf := range freqs {
		posting, ok := s.postings[term]
		if !ok {
			posting = make(map[string]int)
			s.postings[term] = posting
		}
		posting[chunkID] = tf
		length += tf
	}

	s.docLen[chunkID] = length
	s.totalLen += length
}

// search scores chunks against the query terms with BM25 and returns the
// top k, score descending, ties by chunk ID ascending.
func (s *sparseIndex) search(query string, k int) []lexicalHit {
	if k <= 0 || len(s.docLen) == 0 {
		return nil
	}

	terms := tokenizer.Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	n := float64(len(s.docLen))
	avgLen := float64(s.totalLen) / n

	scores := make(map[string]float64)
	for _, term := range terms {
		posting, ok := s.postings[term]
		if !ok {
			continue
		}
		idf := math.Log(1 + (n-float64(len(posting))+0.5)/(float64(len(posting))+0.5))
		for chunkID, tf := range posting {
			norm := 1 - bm25B + bm25B*float64(s.docLen[chunkID])/avgLen
			scores[chunkID] += idf * float64(tf) * (bm25K1 + 1) / (float64(tf) + bm25K1*norm)
		}
	}

	hits := make([]lexicalHit, 0, len(scores))
	for chunkID, score := range scores {
		hits = append(hits, lexicalHit{chunkID: chunkID, score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].chunkID < hits[j].chunkID
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k]
}
