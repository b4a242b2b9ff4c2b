// Package config provides configuration loading and structs for the Kotae server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Server     ServerConfig     `yaml:"server"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Vector     VectorConfig     `yaml:"vector"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Storage    StorageConfig    `yaml:"storage"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// IngestConfig holds ingestion settings. MountPath is the root under which
// all browse and ingest paths are resolved.
type IngestConfig struct {
	MountPath string `yaml:"mount_path"`
}

// VectorConfig holds vector store settings. Type is "qdrant" or "memory".
// The collection's dimensionality and distance metric are fixed at creation
// and must match the configured embedding model.
type VectorConfig struct {
	Type       string `yaml:"type"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Collection string `yaml:"collection"`
	Distance   string `yaml:"distance"`
}

// EmbeddingConfig holds embedding service settings. Provider is "ollama" or
// "mock" (deterministic, for development without a model server).
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// GenerationConfig holds model backend settings for answer generation.
type GenerationConfig struct {
	Local LocalModelConfig `yaml:"local"`
	Cloud CloudModelConfig `yaml:"cloud"`
}

// LocalModelConfig points at an on-host Ollama server.
type LocalModelConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// CloudModelConfig points at a remote OpenAI-compatible API.
// APIKey is usually supplied via the OPENAI_API_KEY environment variable.
type CloudModelConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
}

// RetrievalConfig holds query-time retrieval settings.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// ChunkingConfig holds chunk sizes and overlaps (in characters) for the two
// splitting profiles.
type ChunkingConfig struct {
	TextChunkSize    int `yaml:"text_chunk_size"`
	TextChunkOverlap int `yaml:"text_chunk_overlap"`
	CodeChunkSize    int `yaml:"code_chunk_size"`
	CodeChunkOverlap int `yaml:"code_chunk_overlap"`
}

// StorageConfig holds the path for the ingest ledger database.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig holds directory watch settings. Watching is off unless
// directories are configured.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// Load reads and parses the config file at path, applies defaults, expands
// paths, and applies environment overrides. Returns an error if the file
// cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Ingest.MountPath = expandPath(cfg.Ingest.MountPath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// applyEnvOverrides lets deployment environments override the values that
// vary per host: vector store address, collection name, embedding model,
// local model address, and the cloud API credential.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("QDRANT_URL"); v != "" {
		if host, port, ok := splitHostPort(v); ok {
			cfg.Vector.Host = host
			cfg.Vector.Port = port
		}
	}
	if v := os.Getenv("KOTAE_COLLECTION"); v != "" {
		cfg.Vector.Collection = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Model = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.Embedding.BaseURL = v
		cfg.Generation.Local.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Generation.Cloud.APIKey = v
	}
}

// splitHostPort parses "host:port" with optional scheme prefix
// (e.g. "http://qdrant:6334"). Returns ok=false if the port is missing
// or not numeric.
func splitHostPort(addr string) (string, int, bool) {
	if i := strings.Index(addr, "://"); i >= 0 {
		addr = addr[i+3:]
	}
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok || host == "" {
		return "", 0, false
	}
	port, err := strconv.Atoi(strings.TrimSuffix(portStr, "/"))
	if err != nil {
		return "", 0, false
	}
	return host, port, true
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
