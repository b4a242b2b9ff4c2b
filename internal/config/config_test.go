package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "debug: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Vector.Collection != "knowledge_base" {
		t.Errorf("collection = %q", cfg.Vector.Collection)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("dimensions = %d, want 768", cfg.Embedding.Dimensions)
	}
	if cfg.Retrieval.TopK != 3 {
		t.Errorf("top_k = %d, want 3", cfg.Retrieval.TopK)
	}
	if cfg.Chunking.TextChunkSize != 1000 || cfg.Chunking.TextChunkOverlap != 100 {
		t.Errorf("text chunking = %d/%d, want 1000/100", cfg.Chunking.TextChunkSize, cfg.Chunking.TextChunkOverlap)
	}
	if cfg.Chunking.CodeChunkSize != 500 || cfg.Chunking.CodeChunkOverlap != 50 {
		t.Errorf("code chunking = %d/%d, want 500/50", cfg.Chunking.CodeChunkSize, cfg.Chunking.CodeChunkOverlap)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9000
vector:
  type: memory
  collection: custom
embedding:
  provider: mock
  dimensions: 128
retrieval:
  top_k: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Errorf("server = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Vector.Type != "memory" || cfg.Vector.Collection != "custom" {
		t.Errorf("vector = %+v", cfg.Vector)
	}
	if cfg.Embedding.Provider != "mock" || cfg.Embedding.Dimensions != 128 {
		t.Errorf("embedding = %+v", cfg.Embedding)
	}
	if cfg.Retrieval.TopK != 5 {
		t.Errorf("top_k = %d, want 5", cfg.Retrieval.TopK)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for invalid YAML")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QDRANT_URL", "http://qdrant.internal:7001")
	t.Setenv("KOTAE_COLLECTION", "team_docs")
	t.Setenv("EMBEDDING_MODEL", "all-minilm")
	t.Setenv("OLLAMA_BASE_URL", "http://models:11434")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(writeConfig(t, "debug: false\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Vector.Host != "qdrant.internal" || cfg.Vector.Port != 7001 {
		t.Errorf("vector = %s:%d", cfg.Vector.Host, cfg.Vector.Port)
	}
	if cfg.Vector.Collection != "team_docs" {
		t.Errorf("collection = %q", cfg.Vector.Collection)
	}
	if cfg.Embedding.Model != "all-minilm" {
		t.Errorf("model = %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.BaseURL != "http://models:11434" || cfg.Generation.Local.BaseURL != "http://models:11434" {
		t.Errorf("ollama base url override not applied: %q / %q", cfg.Embedding.BaseURL, cfg.Generation.Local.BaseURL)
	}
	if cfg.Generation.Cloud.APIKey != "sk-env" {
		t.Errorf("api key = %q", cfg.Generation.Cloud.APIKey)
	}
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		input    string
		wantHost string
		wantPort int
		wantOK   bool
	}{
		{"localhost:6334", "localhost", 6334, true},
		{"http://qdrant:6334", "qdrant", 6334, true},
		{"https://qdrant:6334/", "qdrant", 6334, true},
		{"qdrant", "", 0, false},
		{"qdrant:notaport", "", 0, false},
		{":6334", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			host, port, ok := splitHostPort(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (host != tt.wantHost || port != tt.wantPort) {
				t.Errorf("got %s:%d, want %s:%d", host, port, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestRecursiveOrDefault(t *testing.T) {
	var w WatchConfig
	if !w.RecursiveOrDefault() {
		t.Error("unset recursive should default to true")
	}
	f := false
	w.Recursive = &f
	if w.RecursiveOrDefault() {
		t.Error("explicit false should be honored")
	}
}
