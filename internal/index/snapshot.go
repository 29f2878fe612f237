package index

import "github.com/culturo-labs/culturo-cli/internal/core/domain"

// Snapshot is an immutable, versioned pairing of the dense index, the
// sparse index, and the chunk mapping they were built over. Exactly one
// snapshot is active at a time; a rebuild produces a new snapshot and
// swaps it in atomically. A snapshot is never mutated after publication,
// which is what keeps old snapshots valid for in-flight readers without
// any reference counting.
type Snapshot struct {
	version uint64
	chunks  map[string]domain.Chunk
	dense   *denseIndex
	sparse  *sparseIndex
}

// Version returns the snapshot's build version.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Len returns the number of chunks in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.chunks)
}

// Chunk returns the chunk with the given ID.
func (s *Snapshot) Chunk(id string) (domain.Chunk, bool) {
	c, ok := s.chunks[id]
	return c, ok
}

// Chunks returns the snapshot's chunk set, ordered arbitrarily. Callers
// own the returned slice; the snapshot itself stays immutable.
func (s *Snapshot) Chunks() []domain.Chunk {
	out := make([]domain.Chunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		out = append(out, c)
	}
	return out
}

// Contains reports whether the snapshot holds the given chunk ID.
func (s *Snapshot) Contains(id string) bool {
	_, ok := s.chunks[id]
	return ok
}
