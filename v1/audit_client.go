package builder

import (
	"context"
	"time"

	"github.com/openai/openai-go"
)

// AuditEmbeddingsClient wraps OpenAI embeddings client with audit logging
type AuditEmbeddingsClient struct {
	embeddings  openai.EmbeddingService
	auditLogger *AuditLogger
	model       string
}

func NewAuditEmbeddingsClient(client *openai.Client, auditLogger *AuditLogger, model string) *AuditEmbeddingsClient {
	return &AuditEmbeddingsClient{
		embeddings:  client.Embeddings,
		auditLogger: auditLogger,
		model:       model,
	}
}

func (c *AuditEmbeddingsClient) New(ctx context.Context, params openai.EmbeddingNewParams) (*openai.CreateEmbeddingResponse, error) {
	start := time.Now()

	request := map[string]interface{}{
		"model":           params.Model,
		"input":           params.Input,
		"dimensions":      params.Dimensions,
		"encoding_format": params.EncodingFormat,
	}

	response, err := c.embeddings.New(ctx, params)
	duration := time.Since(start)

	c.auditLogger.LogAPICall(ctx, "embeddings", c.model, request, response, err, duration, "")

	return response, err
}

// AuditChatCompletionsClient wraps OpenAI chat completions client with audit logging
type AuditChatCompletionsClient struct {
	completions openai.ChatCompletionService
	auditLogger *AuditLogger
	model       string
}

func NewAuditChatCompletionsClient(client *openai.Client, auditLogger *AuditLogger, model string) *AuditChatCompletionsClient {
	return &AuditChatCompletionsClient{
		completions: client.Chat.Completions,
		auditLogger: auditLogger,
		model:       model,
	}
}

func (c *AuditChatCompletionsClient) New(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	start := time.Now()

	request := map[string]interface{}{
		"model":       params.Model,
		"messages":    params.Messages,
		"temperature": params.Temperature,
		"max_tokens":  params.MaxTokens,
	}

	response, err := c.completions.New(ctx, params)
	duration := time.Since(start)

	c.auditLogger.LogAPICall(ctx, "chat", c.model, request, response, err, duration, "")

	return response, err
}

// AuditReasoner records every request of any reasoner together with its raw reply.
type AuditReasoner struct {
	Reasoner    Reasoner
	AuditLogger *AuditLogger
	Model       string
}

func (r *AuditReasoner) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	reply, err := r.Reasoner.Complete(ctx, req)
	r.AuditLogger.LogAPICall(ctx, "reasoner", r.Model, req, map[string]string{"content": reply}, err, time.Since(start), "")
	return reply, err
}

// AuditEmbedder records every embedding batch. Vectors are summarised by their dimensions.
type AuditEmbedder struct {
	Embedder    Embedder
	AuditLogger *AuditLogger
}

func (e *AuditEmbedder) Name() string {
	return e.Embedder.Name()
}

func (e *AuditEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	start := time.Now()
	vectors, err := e.Embedder.EmbedBatch(ctx, texts)

	dims := make([]int, len(vectors))
	for i, v := range vectors {
		dims[i] = len(v)
	}
	e.AuditLogger.LogAPICall(ctx, "embeddings", e.Embedder.Name(),
		map[string]interface{}{"input": texts},
		map[string]interface{}{"dimensions": dims},
		err, time.Since(start), "")
	return vectors, err
}
