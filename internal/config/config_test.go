package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RAG.ChunkSize != 300 || cfg.RAG.ChunkOverlap != 50 || cfg.RAG.TopK != 3 {
		t.Errorf("RAG defaults = %+v", cfg.RAG)
	}
	if cfg.Store.Type != "memory" {
		t.Errorf("store default = %q, want memory", cfg.Store.Type)
	}
	if cfg.Generator.APIKeyEnv != "OPENAI_API_KEY" {
		t.Errorf("generator key env default = %q", cfg.Generator.APIKeyEnv)
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("rag:\n  chunk_size: 500\nstore:\n  type: chromem\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RAG.ChunkSize != 500 {
		t.Errorf("chunk_size = %d, want 500", cfg.RAG.ChunkSize)
	}
	if cfg.RAG.TopK != 3 {
		t.Errorf("top_k default not applied: %d", cfg.RAG.TopK)
	}
	if cfg.Store.Type != "chromem" {
		t.Errorf("store type = %q", cfg.Store.Type)
	}
	if cfg.Store.Collection != "document_chunks" {
		t.Errorf("collection default not applied: %q", cfg.Store.Collection)
	}
}

func TestResolveKey(t *testing.T) {
	c := LLMConfig{APIKeyEnv: "PDFCHAT_TEST_KEY"}

	t.Setenv("PDFCHAT_TEST_KEY", "")
	if _, err := c.ResolveKey(); !errors.Is(err, ErrMissingCredential) {
		t.Errorf("ResolveKey() with empty env error = %v, want ErrMissingCredential", err)
	}

	t.Setenv("PDFCHAT_TEST_KEY", "sk-test")
	key, err := c.ResolveKey()
	if err != nil {
		t.Fatalf("ResolveKey() error: %v", err)
	}
	if key != "sk-test" {
		t.Errorf("ResolveKey() = %q", key)
	}
}
