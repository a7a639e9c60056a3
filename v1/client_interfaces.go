package builder

import (
	"context"

	"github.com/openai/openai-go"
)

// EmbeddingClientInterface defines the interface for embedding clients
type EmbeddingClientInterface interface {
	New(ctx context.Context, params openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error)
}

// ChatCompletionsInterface defines the interface for chat completions
type ChatCompletionsInterface interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// OriginalOpenAIEmbeddingClient wraps the original OpenAI embedding client
type OriginalOpenAIEmbeddingClient struct {
	embeddings openai.EmbeddingService
}

func (c *OriginalOpenAIEmbeddingClient) New(ctx context.Context, params openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error) {
	return c.embeddings.New(ctx, params)
}

// OriginalOpenAIChatCompletionsClient wraps the original OpenAI chat completions client
type OriginalOpenAIChatCompletionsClient struct {
	completions openai.ChatCompletionService
}

func (c *OriginalOpenAIChatCompletionsClient) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.completions.New(ctx, params)
}

// ToEmbeddingClient returns the embeddings service of client, audited when a logger is given.
func ToEmbeddingClient(client *openai.Client, auditLogger *AuditLogger, model string) EmbeddingClientInterface {
	if auditLogger != nil && auditLogger.Enabled() {
		return NewAuditEmbeddingsClient(client, auditLogger, model)
	}
	return &OriginalOpenAIEmbeddingClient{embeddings: client.Embeddings}
}

// ToChatCompletionsClient returns the chat completions service of client, audited when a logger is given.
func ToChatCompletionsClient(client *openai.Client, auditLogger *AuditLogger, model string) ChatCompletionsInterface {
	if auditLogger != nil && auditLogger.Enabled() {
		return NewAuditChatCompletionsClient(client, auditLogger, model)
	}
	return &OriginalOpenAIChatCompletionsClient{completions: client.Chat.Completions}
}
