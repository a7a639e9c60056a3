package builder

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Request is one instruction/message exchange with a reasoning service.
type Request struct {
	System      string  `json:"system"`
	User        string  `json:"user"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Reasoner sends a request to a language model and returns the reply text.
type Reasoner interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type ReasonerFunc func(ctx context.Context, req Request) (string, error)

func (f ReasonerFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

var ErrNoChoices = errors.New("no choices returned from completion")

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// OpenAIReasoner talks to an OpenAI-compatible chat completions endpoint.
type OpenAIReasoner struct {
	Client  ChatCompletionsInterface
	Model   string
	Timeout time.Duration
}

func NewOpenAIReasoner(client *openai.Client, config ClientConfig, auditLogger *AuditLogger) *OpenAIReasoner {
	return &OpenAIReasoner{
		Client:  ToChatCompletionsClient(client, auditLogger, config.Model),
		Model:   config.Model,
		Timeout: config.timeout(),
	}
}

func (r *OpenAIReasoner) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:       r.Model,
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	c, err := r.Client.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "CreateChatCompletion")
	}
	if len(c.Choices) == 0 {
		return "", ErrNoChoices
	}
	return c.Choices[0].Message.Content, nil
}

// GenAIReasoner talks to the Gemini API.
type GenAIReasoner struct {
	Client  *genai.Client
	Model   string
	Timeout time.Duration
}

func NewGenAIReasoner(client *genai.Client, config ClientConfig) *GenAIReasoner {
	return &GenAIReasoner{Client: client, Model: config.Model, Timeout: config.timeout()}
}

func (r *GenAIReasoner) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	contents := []*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)}
	rsp, err := r.Client.Models.GenerateContent(ctx, r.Model, contents, config)
	if err != nil {
		return "", errors.Wrap(err, "GenerateContent")
	}
	if len(rsp.Candidates) == 0 {
		return "", ErrNoChoices
	}
	return rsp.Text(), nil
}
