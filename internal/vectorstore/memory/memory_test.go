package memory

import (
	"context"
	"reflect"
	"testing"

	"pdfchat/internal/vectorstore"
)

func entry(id string, ordinal int, vec ...float32) vectorstore.Entry {
	return vectorstore.Entry{ID: id, Ordinal: ordinal, Text: id, Vector: vec}
}

func ids(results []vectorstore.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Entry.ID
	}
	return out
}

func TestSearchOrdersBySimilarity(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Add(ctx, []vectorstore.Entry{
		entry("orthogonal", 0, 0, 1, 0),
		entry("close", 1, 1, 0.1, 0),
		entry("exact", 2, 1, 0, 0),
	}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Search(ctx, []float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"exact", "close", "orthogonal"}
	if !reflect.DeepEqual(ids(res), want) {
		t.Errorf("Search() order = %v, want %v", ids(res), want)
	}
}

func TestSearchTieBreaksByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Add(ctx, []vectorstore.Entry{
		entry("first", 0, 1, 0),
		entry("second", 1, 1, 0),
		entry("third", 2, 1, 0),
	}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Search(ctx, []float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second"}
	if !reflect.DeepEqual(ids(res), want) {
		t.Errorf("Search() = %v, want %v", ids(res), want)
	}
}

func TestSearchNeverExceedsK(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Add(ctx, []vectorstore.Entry{entry("a", 0, 1, 0), entry("b", 1, 0, 1)}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Search(ctx, []float32{1, 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 2 {
		t.Errorf("Search() returned %d results, want all 2", len(res))
	}

	res, err = s.Search(ctx, []float32{1, 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Errorf("Search() returned %d results, want 1", len(res))
	}
}

func TestSearchIsStable(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Add(ctx, []vectorstore.Entry{
		entry("a", 0, 0.3, 0.7),
		entry("b", 1, 0.5, 0.5),
		entry("c", 2, 0.9, 0.1),
	}); err != nil {
		t.Fatal(err)
	}

	first, err := s.Search(ctx, []float32{0.6, 0.4}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.Search(ctx, []float32{0.6, 0.4}, 3)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(ids(again), ids(first)) {
			t.Fatalf("Search() ordering changed between calls: %v vs %v", ids(again), ids(first))
		}
	}
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Add(ctx, []vectorstore.Entry{entry("a", 0, 1, 0, 0)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, []vectorstore.Entry{entry("b", 1, 1, 0)}); err == nil {
		t.Error("Add() accepted mismatched vector dimension")
	}
}

func TestResetClearsEntries(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Add(ctx, []vectorstore.Entry{entry("a", 0, 1, 0)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	res, err := s.Search(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("Search() after Reset returned %d results", len(res))
	}
}
