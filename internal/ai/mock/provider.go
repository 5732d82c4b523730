package mock

import (
	"context"
	"fmt"

	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

// Provider satisfies models.AIProvider for testing and local development.
type Provider struct {
	Name_      string
	InvokeFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *Provider) Name() string { return m.Name_ }

func (m *Provider) Invoke(ctx context.Context, prompt string) (string, error) {
	if m.InvokeFunc != nil {
		return m.InvokeFunc(ctx, prompt)
	}
	return "", nil
}

// NewProvider returns a Provider with a canned response, so the full review
// pipeline can be exercised without any model backend.
func NewProvider() *Provider {
	return &Provider{
		Name_: "mock",
		InvokeFunc: func(_ context.Context, prompt string) (string, error) {
			return fmt.Sprintf("Mock analysis response (%d prompt bytes)", len(prompt)), nil
		},
	}
}

// NewFailingProvider returns a Provider that always returns the given error.
func NewFailingProvider(err error) *Provider {
	return &Provider{
		Name_: "mock-failing",
		InvokeFunc: func(_ context.Context, _ string) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a Provider that blocks until context is cancelled.
func NewTimeoutProvider() *Provider {
	return &Provider{
		Name_: "mock-timeout",
		InvokeFunc: func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", models.ErrInferenceTimeout
		},
	}
}

// Compile-time check that Provider implements AIProvider.
var _ models.AIProvider = (*Provider)(nil)
