package memory

import (
	"context"
	"errors"
	"math"
	"sort"

	"pdfchat/internal/vectorstore"
)

// Store is an in-memory vector index using brute-force cosine similarity.
type Store struct {
	dimension int
	entries   []vectorstore.Entry
}

func New() *Store { return &Store{} }

func (s *Store) Reset(ctx context.Context) error {
	s.dimension = 0
	s.entries = nil
	return nil
}

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	for _, e := range entries {
		if len(e.Vector) == 0 {
			return errors.New("entry has empty vector")
		}
		if s.dimension == 0 {
			s.dimension = len(e.Vector)
		}
		if len(e.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.Result, error) {
	if len(vector) != s.dimension && s.dimension != 0 {
		return nil, errors.New("query vector dimension mismatch")
	}
	results := make([]vectorstore.Result, 0, len(s.entries))
	for _, e := range s.entries {
		results = append(results, vectorstore.Result{Entry: e, Score: cosine(e.Vector, vector)})
	}
	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < 0 {
		k = 0
	}
	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

func cosine(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
