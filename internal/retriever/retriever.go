package retriever

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"pdfchat/internal/vectorstore"
)

var (
	// ErrEmptyCorpus is returned by Build when there are no chunks to index.
	ErrEmptyCorpus = errors.New("no chunks to index")

	// ErrIndexDiscarded marks a Build failure that happened after the
	// previous index was dropped: the store no longer holds a usable
	// corpus and the caller must not keep serving queries from it.
	ErrIndexDiscarded = errors.New("index discarded")
)

// Embedder maps text to a fixed-length vector. Satisfied by
// langchaingo's embeddings.EmbedderImpl.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Retriever embeds chunks into a vector store and answers queries with the
// top-K most similar chunk texts.
type Retriever struct {
	store    vectorstore.Store
	embedder Embedder
	topK     int
}

func New(store vectorstore.Store, embedder Embedder, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{store: store, embedder: embedder, topK: topK}
}

// Build replaces the index contents with the given chunks. All chunks are
// embedded before the previous index is touched, so embedding failures keep
// it intact; a failure writing the new entries is reported with
// ErrIndexDiscarded since by then the previous index is gone.
func (r *Retriever) Build(ctx context.Context, chunks []string) error {
	if len(chunks) == 0 {
		return ErrEmptyCorpus
	}

	entries := make([]vectorstore.Entry, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := r.embedder.EmbedQuery(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		entries = append(entries, vectorstore.Entry{
			ID:      fmt.Sprintf("chunk-%d", i),
			Ordinal: i,
			Text:    chunk,
			Vector:  vec,
		})
	}

	if err := r.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset index: %w", err)
	}
	if err := r.store.Add(ctx, entries); err != nil {
		// The old index is already gone. Leave the store empty rather
		// than partially filled, and tell the caller the index is lost.
		if resetErr := r.store.Reset(ctx); resetErr != nil {
			log.Error().Err(resetErr).Msg("could not clear partially built index")
		}
		return fmt.Errorf("index chunks: %w", errors.Join(err, ErrIndexDiscarded))
	}
	log.Info().Int("chunks", len(entries)).Msg("built vector index")
	return nil
}

// Retrieve returns the chunk texts most similar to query, best first.
// There is no score floor: the top-K are returned regardless of how
// weak the best match is.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]string, error) {
	vec, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	results, err := r.store.Search(ctx, vec, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Entry.Text)
	}
	return texts, nil
}
