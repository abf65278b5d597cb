package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrNoCredential is returned before any network activity when no API key
// is configured. Callers degrade to their local fallback.
var ErrNoCredential = errors.New("llm: api key is not configured")

// Client wraps an OpenAI-compatible chat-completion endpoint. The base URL
// is configurable so the same client talks to Groq or any other provider
// speaking the protocol.
type Client struct {
	api    *openai.Client
	hasKey bool
	logger *zap.Logger
}

func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(cfg),
		hasKey: apiKey != "",
		logger: logger,
	}
}

// Request is one chat-completion call. Exactly one attempt is made; there
// are no retries at this layer.
type Request struct {
	Model       string
	Messages    []openai.ChatCompletionMessage
	MaxTokens   int
	Temperature float32
}

// Complete performs the call and returns the trimmed assistant content.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if !c.hasKey {
		return "", ErrNoCredential
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices in response")
	}

	c.logger.Debug("chat completion finished",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)))

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DecodeJSON parses a strict-JSON reply from the model. Models routinely
// wrap the object in markdown fences or prose, so the parser isolates the
// outermost object before unmarshalling. A failure here is treated by
// callers exactly like a transport failure.
func DecodeJSON(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model reply")
	}

	if err := json.Unmarshal([]byte(trimmed[start:end+1]), v); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}
