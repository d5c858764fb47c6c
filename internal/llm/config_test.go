package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultEmbeddingModel, config.GetEmbeddingModel())
	assert.Zero(t, config.Temperature)
	assert.Positive(t, config.CallTimeout)
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{"own tier", map[ModelTier]string{TierAdvanced: "pro", TierStandard: "flash"}, TierAdvanced, "pro"},
		{"borrows standard", map[ModelTier]string{TierStandard: "flash", TierLite: "lite"}, TierAdvanced, "flash"},
		{"borrows lite", map[ModelTier]string{TierLite: "lite"}, TierStandard, "lite"},
		{"blank entry skipped", map[ModelTier]string{TierAdvanced: "", TierLite: "lite"}, TierAdvanced, "lite"},
		{"nothing configured", nil, TierLite, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Models: tt.models}
			assert.Equal(t, tt.want, config.GetModel(tt.tier))
		})
	}
}

func TestSetModel(t *testing.T) {
	config := &Config{}

	config.SetModel(TierLite, "custom-lite")
	config.SetModel(TierStandard, "")

	assert.Equal(t, "custom-lite", config.GetModel(TierLite))
	assert.Equal(t, "custom-lite", config.GetModel(TierStandard))

	defaults := DefaultConfig()
	defaults.SetModel(TierStandard, "custom-flash")
	assert.Equal(t, "custom-flash", defaults.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", DefaultConfig().GetModel(TierStandard))
}

func TestGetEmbeddingModel(t *testing.T) {
	config := &Config{}
	assert.Equal(t, DefaultEmbeddingModel, config.GetEmbeddingModel())

	config.EmbeddingModel = "custom-embedding"
	assert.Equal(t, "custom-embedding", config.GetEmbeddingModel())
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), nil, "", nil)
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("상위권"), genai.Text("대학교")}},
	}}}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "상위권대학교", text)

	for name, empty := range map[string]*genai.GenerateContentResponse{
		"nil":           nil,
		"no candidates": {},
		"no content":    {Candidates: []*genai.Candidate{{}}},
		"no text":       {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}}},
	} {
		_, err := responseText(empty)
		assert.ErrorIs(t, err, ErrEmptyResponse, name)
	}
}

func TestRetry(t *testing.T) {
	c := &GeminiClient{config: &Config{MaxRetries: 1}, logger: zap.NewNop()}

	calls := 0
	err := c.retry(context.Background(), "test", func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("unavailable")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = c.retry(context.Background(), "test", func(context.Context) error {
		calls++
		return ErrEmptyResponse
	})
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 1, calls, "empty responses are not retried")
}

func TestRetry_CallTimeout(t *testing.T) {
	c := &GeminiClient{config: &Config{CallTimeout: 10 * time.Millisecond}, logger: zap.NewNop()}

	err := c.retry(context.Background(), "test", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
