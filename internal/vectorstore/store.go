package vectorstore

import "context"

// Entry pairs one chunk of document text with its embedding vector.
type Entry struct {
	ID      string
	Ordinal int
	Text    string
	Vector  []float32
}

// Result is a matching entry with its similarity score.
type Result struct {
	Entry Entry
	Score float32
}

// Store holds (vector, chunk text) pairs and supports nearest-neighbor
// retrieval. The index is rebuilt from scratch on every upload: callers
// Reset before Add, there is no incremental update.
type Store interface {
	// Reset drops all entries.
	Reset(ctx context.Context) error
	// Add appends entries to the index.
	Add(ctx context.Context, entries []Entry) error
	// Search returns up to k entries ordered from most to least similar to
	// vector. Ties are broken by lower ordinal.
	Search(ctx context.Context, vector []float32, k int) ([]Result, error)
}
