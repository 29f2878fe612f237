package index

import (
	"math"
	"sort"
)

// denseHit is a dense-retrieval result.
type denseHit struct {
	chunkID string
	// score is the cosine similarity, equal to the inner product since
	// stored and query vectors are normalized.
	score float64
}

// denseIndex is an exact nearest-neighbour index over normalized vectors.
// Event corpora are small enough (tens of thousands of chunks) that a
// flat scan beats graph-based ANN structures on both simplicity and
// build time.
type denseIndex struct {
	dim     int
	ids     []string
	vectors [][]float32
}

func newDenseIndex(dim int) *denseIndex {
	return &denseIndex{dim: dim}
}

// add inserts a vector. The vector is normalized on insertion; the
// original slice is not retained.
func (d *denseIndex) add(chunkID string, embedding []float32) {
	d.ids = append(d.ids, chunkID)
	d.vectors = append(d.vectors, normalize(embedding))
}

// search returns the k most similar chunk IDs, similarity descending,
// ties by chunk ID ascending for determinism.
func (d *denseIndex) search(query []float32, k int) []denseHit {
	if k <= 0 || len(d.ids) == 0 || len(query) != d.dim {
		return nil
	}

	q := normalize(query)
	hits := make([]denseHit, len(d.ids))
	for i, vec := range d.vectors {
		hits[i] = denseHit{chunkID: d.ids[i], score: dot(q, vec)}
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

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// normalize returns a unit-length copy of v. Zero vectors are returned
// as-is; they match nothing.
func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
