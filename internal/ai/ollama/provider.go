package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jairajbhatia/reviewgraph/internal/ai/retry"
	"github.com/jairajbhatia/reviewgraph/internal/config"
	"github.com/jairajbhatia/reviewgraph/pkg/models"
)

const maxRetries = 3

// Provider implements models.AIProvider against Ollama's OpenAI-compatible
// chat completions endpoint.
type Provider struct {
	endpoint string
	model    string
	client   *http.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	base = strings.TrimSuffix(base, "/v1/chat/completions")
	base = strings.TrimSuffix(base, "/v1")

	return &Provider{
		endpoint: base + "/v1/chat/completions",
		model:    cfg.Model,
		client:   &http.Client{Timeout: 300 * time.Second},
	}
}

func (p *Provider) Name() string { return "ollama" }

func (p *Provider) Invoke(ctx context.Context, prompt string) (string, error) {
	body := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var content string
	err = retry.WithBackoff(ctx, maxRetries, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %v", models.ErrInferenceTimeout, err)
			}
			return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return retry.Transient(fmt.Errorf("API error (status %d): %s", resp.StatusCode, respBody))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, respBody)
		}

		var result chatResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidResponse, err)
		}
		if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
			return models.ErrInvalidResponse
		}

		content = result.Choices[0].Message.Content
		return nil
	})

	return content, err
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

var _ models.AIProvider = (*Provider)(nil)
