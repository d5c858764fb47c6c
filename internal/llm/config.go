// Package llm wraps the Gemini API behind small interfaces used by the
// profiling nodes: text and JSON generation per model tier, and embeddings.
package llm

import "time"

// ModelTier names how capable a model a prompt needs.
type ModelTier string

const (
	// TierLite answers with a single label, such as the education tier.
	TierLite ModelTier = "lite"
	// TierStandard produces structured output for the other classifiers.
	TierStandard ModelTier = "standard"
	// TierAdvanced is unused by default; it can be mapped to a larger model.
	TierAdvanced ModelTier = "advanced"
)

// DefaultEmbeddingModel embeds search keywords and news chunks. Its output
// dimension must match the company_news.embedding column.
const DefaultEmbeddingModel = "text-embedding-004"

// Config selects models and call behaviour.
type Config struct {
	Models         map[ModelTier]string
	EmbeddingModel string
	Temperature    float32
	// CallTimeout bounds a single API call; zero leaves it to the caller's context.
	CallTimeout time.Duration
	// MaxRetries is how many times a failed call is repeated.
	MaxRetries uint64
}

// DefaultConfig returns the Gemini models the classifiers were tuned with,
// at temperature 0 for repeatable labels.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		EmbeddingModel: DefaultEmbeddingModel,
		CallTimeout:    60 * time.Second,
		MaxRetries:     2,
	}
}

// GetModel resolves a tier to a model name. A tier with no model borrows the
// standard model, then the lite one; "" means nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if m := c.Models[t]; m != "" {
			return m
		}
	}
	return ""
}

// SetModel overrides the model of one tier. Empty names are ignored.
func (c *Config) SetModel(tier ModelTier, model string) {
	if model == "" {
		return
	}
	if c.Models == nil {
		c.Models = make(map[ModelTier]string)
	}
	c.Models[tier] = model
}

// GetEmbeddingModel returns the embedding model, falling back to the default.
func (c *Config) GetEmbeddingModel() string {
	if c.EmbeddingModel == "" {
		return DefaultEmbeddingModel
	}
	return c.EmbeddingModel
}
