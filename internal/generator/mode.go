// Package generator routes prompts to language-model backends and produces
// raw completions.
package generator

import (
	"fmt"
	"strings"
)

// Mode selects which backend answers a question.
type Mode int

const (
	// ModeLocal uses the local Ollama server. It needs no credentials and is
	// the default.
	ModeLocal Mode = iota
	// ModeCloud uses the configured hosted API and requires an API key.
	ModeCloud
)

// ParseMode converts a request string into a Mode. The empty string maps to
// ModeLocal; anything else unrecognized is an error so typos fail loudly at
// the boundary instead of silently picking a backend.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "local":
		return ModeLocal, nil
	case "cloud":
		return ModeCloud, nil
	default:
		return ModeLocal, fmt.Errorf("unknown mode: %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeCloud:
		return "cloud"
	default:
		return "unknown"
	}
}
