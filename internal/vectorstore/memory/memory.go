package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"docqa/internal/domain"
)

var _ domain.VectorStore = (*Storage)(nil)

// Storage is an in-memory vector store using brute-force cosine similarity.
// Nothing is persisted; entries live until Clear or process exit.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	norms     []float64
	chunks    []domain.Chunk
}

// NewStorage returns an empty store. Init must be called before Upsert.
func NewStorage() *Storage { return &Storage{} }

// Init fixes the vector dimension and drops existing entries.
func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors, s.norms, s.chunks = nil, nil, nil
	return nil
}

// Upsert appends chunks with their vectors.
func (s *Storage) Upsert(_ context.Context, chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for i := range vectors {
		s.chunks = append(s.chunks, chunks[i])
		s.vectors = append(s.vectors, vectors[i])
		s.norms = append(s.norms, norm(vectors[i]))
	}
	return nil
}

// Search returns up to topK chunks ordered by descending cosine similarity.
// Equal scores keep insertion order.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(vector) != s.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	qn := norm(vector)
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		if qn == 0 || s.norms[i] == 0 {
			continue
		}
		scores[i] = dot(s.vectors[i], vector) / (s.norms[i] * qn)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.SearchResult{Chunk: s.chunks[j], Score: scores[j]})
	}
	return results, nil
}

// Clear drops every entry but keeps the dimension.
func (s *Storage) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors, s.norms, s.chunks = nil, nil, nil
	return nil
}

// Len reports the number of stored entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 { return math.Sqrt(dot(v, v)) }
