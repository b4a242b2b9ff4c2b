package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Ingest.MountPath == "" {
		cfg.Ingest.MountPath = "/mnt/host_files"
	}
	if cfg.Vector.Type == "" {
		cfg.Vector.Type = "qdrant"
	}
	if cfg.Vector.Host == "" {
		cfg.Vector.Host = "localhost"
	}
	if cfg.Vector.Port == 0 {
		cfg.Vector.Port = 6334
	}
	if cfg.Vector.Collection == "" {
		cfg.Vector.Collection = "knowledge_base"
	}
	if cfg.Vector.Distance == "" {
		cfg.Vector.Distance = "cosine"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "ollama"
	}
	if cfg.Embedding.BaseURL == "" {
		cfg.Embedding.BaseURL = "http://localhost:11434"
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "nomic-embed-text"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 768
	}
	if cfg.Generation.Local.BaseURL == "" {
		cfg.Generation.Local.BaseURL = "http://localhost:11434"
	}
	if cfg.Generation.Local.Model == "" {
		cfg.Generation.Local.Model = "mistral"
	}
	if cfg.Generation.Cloud.BaseURL == "" {
		cfg.Generation.Cloud.BaseURL = "https://api.openai.com"
	}
	if cfg.Generation.Cloud.Model == "" {
		cfg.Generation.Cloud.Model = "gpt-4o-mini"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Chunking.TextChunkSize == 0 {
		cfg.Chunking.TextChunkSize = 1000
	}
	if cfg.Chunking.TextChunkOverlap == 0 {
		cfg.Chunking.TextChunkOverlap = 100
	}
	if cfg.Chunking.CodeChunkSize == 0 {
		cfg.Chunking.CodeChunkSize = 500
	}
	if cfg.Chunking.CodeChunkOverlap == 0 {
		cfg.Chunking.CodeChunkOverlap = 50
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/kotae/data/ledger.db"
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
