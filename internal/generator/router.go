package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Router dispatches generation requests to the backend selected by Mode.
// Both backends are constructed up front; mode selection is per request.
type Router struct {
	local  Backend
	cloud  Backend
	logger *zap.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a Router over the given local and cloud backends.
func NewRouter(local, cloud Backend, opts ...Option) *Router {
	r := &Router{
		local:  local,
		cloud:  cloud,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generate builds the grounded prompt and runs it on the backend selected by
// mode. Errors are typed: ErrMissingCredential for an unconfigured cloud key,
// *BackendError for backend failures.
func (r *Router) Generate(ctx context.Context, chunks []string, question string, mode Mode) (string, error) {
	var backend Backend
	switch mode {
	case ModeLocal:
		backend = r.local
	case ModeCloud:
		backend = r.cloud
	default:
		return "", fmt.Errorf("unknown mode: %d", mode)
	}

	prompt := BuildPrompt(chunks, question)
	r.logger.Debug("generating answer",
		zap.String("mode", mode.String()),
		zap.String("backend", backend.Name()),
		zap.Int("context_chunks", len(chunks)),
		zap.Int("prompt_len", len(prompt)))

	out, err := backend.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return out, nil
}
