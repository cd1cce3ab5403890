package chromem

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"pdfchat/internal/vectorstore"
)

const compress = false

// Store keeps the index in a chromem-go collection, optionally persisted
// to disk between runs.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
}

func New(path, collectionName string, inMemory bool) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	c, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}
	return &Store{db: db, collection: c, name: collectionName}, nil
}

// Reset drops and recreates the collection.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	c, err := s.db.GetOrCreateCollection(s.name, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %w", err)
	}
	s.collection = c
	return nil
}

func (s *Store) Add(ctx context.Context, entries []vectorstore.Entry) error {
	docs := make([]chromem.Document, 0, len(entries))
	for _, e := range entries {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		docs = append(docs, chromem.Document{
			ID:        id,
			Content:   e.Text,
			Metadata:  map[string]string{"ordinal": strconv.Itoa(e.Ordinal)},
			Embedding: e.Vector,
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.Result, error) {
	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	results, err := s.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	out := make([]vectorstore.Result, 0, len(results))
	for _, r := range results {
		ordinal, _ := strconv.Atoi(r.Metadata["ordinal"])
		out = append(out, vectorstore.Result{
			Entry: vectorstore.Entry{ID: r.ID, Ordinal: ordinal, Text: r.Content, Vector: r.Embedding},
			Score: r.Similarity,
		})
	}
	// chromem orders by similarity only; equal scores fall back to
	// document position as the Store contract requires.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Entry.Ordinal < out[j].Entry.Ordinal
	})
	return out, nil
}
