// Package config loads the talent profiler configuration from an optional
// YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/talent-profiler/internal/llm"
	"github.com/jonathan/talent-profiler/internal/profiling"
	"github.com/jonathan/talent-profiler/internal/server/ratelimit"
	"github.com/jonathan/talent-profiler/internal/workflow"
)

// AppName is the base name of the config file looked up in the working directory.
const AppName = "talent-profiler"

// Config represents the full application configuration.
// Every key can be overridden by an environment variable named after its
// path, upper-cased with dots replaced by underscores (llm.lite_model -> LLM_LITE_MODEL).
type Config struct {
	Port         int    `mapstructure:"port"`
	DatabaseURL  string `mapstructure:"database_url"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	LLM       LLMConfig       `mapstructure:"llm"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// LLMConfig selects the Gemini models per tier.
type LLMConfig struct {
	LiteModel      string        `mapstructure:"lite_model"`
	StandardModel  string        `mapstructure:"standard_model"`
	AdvancedModel  string        `mapstructure:"advanced_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Temperature    float32       `mapstructure:"temperature"`
	CallTimeout    time.Duration `mapstructure:"call_timeout"`
	MaxRetries     uint64        `mapstructure:"max_retries"`
}

// WorkflowConfig tunes the profiling graph and its nodes.
type WorkflowConfig struct {
	CacheSize         int           `mapstructure:"cache_size"`
	SearchK           int           `mapstructure:"search_k"`
	SearchConcurrency int           `mapstructure:"search_concurrency"`
	BranchPolicy      string        `mapstructure:"branch_policy"`
	BranchTimeout     time.Duration `mapstructure:"branch_timeout"`
	// NodeTimeout bounds one shared node computation, which outlives the
	// request that started it.
	NodeTimeout time.Duration `mapstructure:"node_timeout"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// RateLimitConfig is the per-client request budget of the HTTP server.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	// Whitelist and Blacklist are comma-separated client IPs or CIDR prefixes.
	Whitelist string `mapstructure:"whitelist"`
	Blacklist string `mapstructure:"blacklist"`
}

// SetDefaults registers every key with its default. Registering the keys is
// also what lets AutomaticEnv find them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	models := llm.DefaultConfig()
	limits := ratelimit.DefaultConfig()

	v.SetDefault("port", 8000)
	v.SetDefault("database_url", "")
	v.SetDefault("gemini_api_key", "")

	v.SetDefault("llm.lite_model", models.Models[llm.TierLite])
	v.SetDefault("llm.standard_model", models.Models[llm.TierStandard])
	v.SetDefault("llm.advanced_model", models.Models[llm.TierAdvanced])
	v.SetDefault("llm.embedding_model", models.EmbeddingModel)
	v.SetDefault("llm.temperature", models.Temperature)
	v.SetDefault("llm.call_timeout", models.CallTimeout)
	v.SetDefault("llm.max_retries", models.MaxRetries)

	v.SetDefault("workflow.cache_size", 256)
	v.SetDefault("workflow.search_k", profiling.DefaultSearchK)
	v.SetDefault("workflow.search_concurrency", profiling.DefaultSearchConcurrency)
	v.SetDefault("workflow.branch_policy", string(workflow.PolicyAbort))
	v.SetDefault("workflow.branch_timeout", time.Duration(0))
	v.SetDefault("workflow.node_timeout", profiling.DefaultNodeTimeout)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("rate_limit.enabled", limits.Enabled)
	v.SetDefault("rate_limit.default_limit", limits.DefaultLimit)
	v.SetDefault("rate_limit.default_window", limits.DefaultWindow)
	v.SetDefault("rate_limit.cleanup_interval", limits.CleanupInterval)
	v.SetDefault("rate_limit.whitelist", "")
	v.SetDefault("rate_limit.blacklist", "")
}

// Load reads configuration into a Config. When path is empty the file
// talent-profiler.yaml in the working directory is used if present.
// Flags bound to v beforehand take precedence over file and environment.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges and enum values. Credentials are checked by the
// commands that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.Workflow.CacheSize <= 0 {
		return fmt.Errorf("config error: 'workflow.cache_size' must be positive")
	}
	if c.Workflow.SearchK <= 0 {
		return fmt.Errorf("config error: 'workflow.search_k' must be positive")
	}
	if c.Workflow.SearchConcurrency <= 0 {
		return fmt.Errorf("config error: 'workflow.search_concurrency' must be positive")
	}
	if c.Workflow.BranchTimeout < 0 {
		return fmt.Errorf("config error: 'workflow.branch_timeout' must be non-negative")
	}
	if c.Workflow.NodeTimeout <= 0 {
		return fmt.Errorf("config error: 'workflow.node_timeout' must be positive")
	}
	if _, err := workflow.ParsePolicy(c.Workflow.BranchPolicy); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("config error: 'llm.temperature' must be between 0 and 2")
	}
	if c.LLM.CallTimeout < 0 {
		return fmt.Errorf("config error: 'llm.call_timeout' must be non-negative")
	}
	if _, err := ratelimit.ParseIPList(c.RateLimit.Whitelist); err != nil {
		return fmt.Errorf("config error: 'rate_limit.whitelist': %w", err)
	}
	if _, err := ratelimit.ParseIPList(c.RateLimit.Blacklist); err != nil {
		return fmt.Errorf("config error: 'rate_limit.blacklist': %w", err)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit < 0 {
			return fmt.Errorf("config error: 'rate_limit.default_limit' must be non-negative")
		}
		if c.RateLimit.DefaultWindow <= 0 {
			return fmt.Errorf("config error: 'rate_limit.default_window' must be positive")
		}
	}
	return nil
}

// RequireCredentials reports the missing secrets needed to run the workflow.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config error: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// LLMClientConfig converts the LLM section into an llm.Config. Empty model
// names keep the Gemini defaults.
func (c *Config) LLMClientConfig() *llm.Config {
	out := llm.DefaultConfig()
	out.SetModel(llm.TierLite, c.LLM.LiteModel)
	out.SetModel(llm.TierStandard, c.LLM.StandardModel)
	out.SetModel(llm.TierAdvanced, c.LLM.AdvancedModel)
	if c.LLM.EmbeddingModel != "" {
		out.EmbeddingModel = c.LLM.EmbeddingModel
	}
	out.Temperature = c.LLM.Temperature
	out.CallTimeout = c.LLM.CallTimeout
	out.MaxRetries = c.LLM.MaxRetries
	return out
}

// RateLimiterConfig converts the rate limit section into a ratelimit.Config
// carrying the default endpoint budgets.
func (c *Config) RateLimiterConfig() *ratelimit.Config {
	out := ratelimit.DefaultConfig()
	out.Enabled = c.RateLimit.Enabled
	out.DefaultLimit = c.RateLimit.DefaultLimit
	out.DefaultWindow = c.RateLimit.DefaultWindow
	out.CleanupInterval = c.RateLimit.CleanupInterval
	// Validate has already rejected malformed lists.
	out.Whitelist, _ = ratelimit.ParseIPList(c.RateLimit.Whitelist)
	out.Blacklist, _ = ratelimit.ParseIPList(c.RateLimit.Blacklist)
	return out
}

// Policy returns the parsed branch policy. Validate must have passed.
func (c *Config) Policy() workflow.Policy {
	p, err := workflow.ParsePolicy(c.Workflow.BranchPolicy)
	if err != nil {
		return workflow.PolicyAbort
	}
	return p
}
