package builder

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

// DefaultRequestTimeout bounds every call to the reasoning and embedding services.
const DefaultRequestTimeout = 60 * time.Second

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func (c ClientConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.Timeout
}

// NewOpenAIClient creates a client for an OpenAI-compatible endpoint. Retries
// are disabled: a failed selection degrades to an empty one instead.
func NewOpenAIClient(config ClientConfig) *openai.Client {
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
		option.WithRequestTimeout(config.timeout()),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	}
	client := openai.NewClient(opts...)
	return &client
}

func NewGenAIClient(ctx context.Context, config ClientConfig) (*genai.Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("genai api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return client, nil
}
