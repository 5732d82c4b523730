// Package models contains shared data models used across the reviewgraph codebase.
package models

import (
	"context"
	"errors"
)

// Sentinel errors shared by every provider implementation. Callers match on
// these with errors.Is instead of inspecting provider-specific failures.
var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)

// AIProvider is the core interface that all model integrations must implement.
// Never call a specific provider directly — always inject this interface.
// Every invocation must be treated as possibly slow and possibly failing.
type AIProvider interface {
	// Invoke sends one prompt to the model and returns its text completion.
	Invoke(ctx context.Context, prompt string) (string, error)
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string
}
