package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kotae-ai/kotae/internal/config"
)

const defaultGenerateTimeout = 120 * time.Second

// OllamaBackend generates completions via a local Ollama server. Temperature
// is pinned to zero so retrieval-grounded answers stay reproducible.
type OllamaBackend struct {
	client  *http.Client
	baseURL string
	model   string
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// NewOllamaBackend creates a backend for the configured local model.
func NewOllamaBackend(cfg *config.LocalModelConfig) *OllamaBackend {
	return &OllamaBackend{
		client:  &http.Client{Timeout: defaultGenerateTimeout},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
	}
}

// Name identifies this backend in errors and logs.
func (b *OllamaBackend) Name() string {
	return "ollama"
}

// Generate sends the prompt to Ollama's generate API and returns the full
// completion.
func (b *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   b.model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{Temperature: 0},
	})
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("generate request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &BackendError{
			Backend: b.Name(),
			Err:     fmt.Errorf("generate error (status %d): %s", resp.StatusCode, string(raw)),
		}
	}

	var gr ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return gr.Response, nil
}
