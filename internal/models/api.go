package models

// IngestRequest asks the server to ingest a file or directory, relative to
// the configured mount root.
type IngestRequest struct {
	Path string `json:"path"`
}

// ChatRequest is a question against the indexed corpus. Mode selects the
// generation backend ("local" or "cloud"); empty defaults to local.
type ChatRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode,omitempty"`
}

// BrowseRequest lists a directory under the mount root.
type BrowseRequest struct {
	Path string `json:"path"`
}

// PredictRequest is the legacy single-service request shape.
type PredictRequest struct {
	Question string `json:"question"`
}
