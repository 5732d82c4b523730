package ai

import (
	"fmt"

	"github.com/jairajbhatia/reviewgraph/internal/ai/anthropic"
	"github.com/jairajbhatia/reviewgraph/internal/ai/mock"
	"github.com/jairajbhatia/reviewgraph/internal/ai/ollama"
	"github.com/jairajbhatia/reviewgraph/internal/ai/openai"
	"github.com/jairajbhatia/reviewgraph/internal/config"
	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config.
// Called once at server startup; the provider is injected everywhere else.
func NewProvider(cfg config.AIConfig) (models.AIProvider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of openai, anthropic, ollama, mock", cfg.Provider)
	}
}
