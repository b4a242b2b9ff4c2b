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

// OpenAIBackend generates completions via an OpenAI-compatible chat
// completions API. It requires an API key; without one every call fails with
// ErrMissingCredential before reaching the network.
type OpenAIBackend struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIBackend creates a backend for the configured hosted model.
func NewOpenAIBackend(cfg *config.CloudModelConfig) *OpenAIBackend {
	return &OpenAIBackend{
		client:  &http.Client{Timeout: 60 * time.Second},
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}
}

// Name identifies this backend in errors and logs.
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Generate sends the prompt as a single user message and returns the first
// choice's content.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	if b.apiKey == "" {
		return "", ErrMissingCredential
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       b.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
	})
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("marshal request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("completion request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &BackendError{
			Backend: b.Name(),
			Err:     fmt.Errorf("completion error (status %d): %s", resp.StatusCode, string(raw)),
		}
	}

	var cr chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if cr.Error != nil {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("api error: %s", cr.Error.Message)}
	}
	if len(cr.Choices) == 0 {
		return "", &BackendError{Backend: b.Name(), Err: fmt.Errorf("no choices in response")}
	}
	return cr.Choices[0].Message.Content, nil
}
