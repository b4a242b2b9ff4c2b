package generator

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredential means the cloud backend was requested without an API
// key configured. Detected before any network call.
var ErrMissingCredential = errors.New("missing API credential")

// BackendError wraps a failure from a specific generation backend so callers
// can report which backend failed while still unwrapping the cause.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Backend generates a completion for a fully-built prompt.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
