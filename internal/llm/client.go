package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client generates completions for a model tier.
type Client interface {
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON asks for a JSON reply and strips any wrapping around it.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	GetModel(tier ModelTier) string
	Close() error
}

// Embedder turns text into a dense vector comparable with the stored news embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrEmptyResponse is returned when Gemini answers without usable text,
// typically because the reply was blocked. It is not retried.
var ErrEmptyResponse = errors.New("empty response from model")

// GeminiClient implements Client and Embedder on the Gemini API.
type GeminiClient struct {
	client *genai.Client
	config *Config
	logger *zap.Logger
}

// NewClient connects to Gemini. A nil config uses DefaultConfig and a nil
// logger discards retry warnings.
func NewClient(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config, logger: logger}, nil
}

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, "")
}

func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, "application/json")
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, tier ModelTier, mimeType string) (string, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	model := c.client.GenerativeModel(name)
	model.SetTemperature(c.config.Temperature)
	model.ResponseMIMEType = mimeType

	var text string
	err := c.retry(ctx, "generate "+name, func(ctx context.Context) error {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return fmt.Errorf("failed to generate content: %w", err)
		}
		text, err = responseText(resp)
		return err
	})
	return text, err
}

// Embed returns the embedding of text using the configured embedding model.
func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	name := c.config.GetEmbeddingModel()
	em := c.client.EmbeddingModel(name)

	var values []float32
	err := c.retry(ctx, "embed "+name, func(ctx context.Context) error {
		resp, err := em.EmbedContent(ctx, genai.Text(text))
		if err != nil {
			return fmt.Errorf("failed to embed text: %w", err)
		}
		if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
			return ErrEmptyResponse
		}
		values = resp.Embedding.Values
		return nil
	})
	return values, err
}

func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// retry runs call with a per-attempt timeout, backing off between attempts.
// Cancellation of the parent context and empty responses end it immediately.
func (c *GeminiClient) retry(ctx context.Context, op string, call func(context.Context) error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 0

	return backoff.RetryNotify(func() error {
		err := c.attempt(ctx, call)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || errors.Is(err, ErrEmptyResponse) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.config.MaxRetries), ctx), func(err error, wait time.Duration) {
		c.logger.Warn("retrying model call", zap.String("operation", op), zap.Duration("wait", wait), zap.Error(err))
	})
}

func (c *GeminiClient) attempt(ctx context.Context, call func(context.Context) error) error {
	if c.config.CallTimeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()
	return call(ctx)
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
