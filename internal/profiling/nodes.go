// Package profiling implements the four classification steps of a candidate
// profile: education tier, leadership, company scale and domain experience.
// Every step is memoized on its inputs and the prompt text it renders.
package profiling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/llm"
	"github.com/jonathan/talent-profiler/internal/logger"
	"github.com/jonathan/talent-profiler/internal/memo"
	"github.com/jonathan/talent-profiler/internal/prompts"
	"github.com/jonathan/talent-profiler/internal/schemas"
	"github.com/jonathan/talent-profiler/internal/types"
	schemafiles "github.com/jonathan/talent-profiler/schemas"
)

// Node names, also used as State field names and log keys.
const (
	NodeCollegeLevel = "college_level"
	NodeLeadership   = "leadership"
	NodeCompanyScale = "company_size"
	NodeExperience   = "experience"
)

// PromptFile is the embedded prompt set the nodes render.
const PromptFile = "profiling.yaml"

// maxLoggedResponse caps the model output attached to warnings.
const maxLoggedResponse = 500

// Prompt keys in PromptFile.
const (
	promptCollegeLevel = "college-level"
	promptLeadership   = "leadership"
	promptCompanyScale = "company-scale"
	promptExperience   = "experience"
)

// promptInputs are the placeholders each prompt may use.
var promptInputs = map[string][]string{
	promptCollegeLevel: {"College"},
	promptLeadership:   {"Skills", "Titles"},
	promptCompanyScale: {"CompaniesAndDates", "CompanyData", "CompanyNews"},
	promptExperience:   {"Descriptions", "CompanyData"},
}

// Defaults for Options.
const (
	DefaultSearchK           = 5
	DefaultSearchConcurrency = 4
	DefaultNodeTimeout       = 5 * time.Minute
)

// Searcher finds news chunks for a keyword inside a date window.
type Searcher interface {
	Search(ctx context.Context, keyword string, k int, window *types.DateWindow) []types.TextChunk
}

// CompanyLookup returns the stored records for the candidate's companies.
// Nodes call it only on a cache miss.
type CompanyLookup func(ctx context.Context) ([]types.CompanyRecord, error)

// Options configures Nodes.
type Options struct {
	// CacheSize is the LRU capacity of each node's cache.
	CacheSize int
	// SearchK is the number of news chunks requested per missing company interval.
	SearchK int
	// SearchConcurrency bounds the parallel news searches of one company scale call.
	SearchConcurrency int
	// NodeTimeout bounds one shared cache-miss computation. It runs detached
	// from the requests waiting on it, so this is its only deadline.
	NodeTimeout time.Duration
	Logger      *zap.Logger
}

// Nodes holds the LLM client, the news searcher and one cache per node.
// It is safe for concurrent use and meant to live for the whole process.
type Nodes struct {
	client            llm.Client
	searcher          Searcher
	searchK           int
	searchConcurrency int
	logger            *zap.Logger

	education    *memo.Memo[types.EducationLevel]
	leadership   *memo.Memo[types.Leadership]
	companyScale *memo.Memo[types.CompanyScaleFindings]
	experience   *memo.Memo[types.ExperienceFindings]
}

// NewNodes creates the classification nodes.
func NewNodes(client llm.Client, searcher Searcher, opts Options) (*Nodes, error) {
	if client == nil {
		return nil, errors.New("llm client is required")
	}
	if searcher == nil {
		return nil, errors.New("news searcher is required")
	}
	if err := checkTemplates(); err != nil {
		return nil, err
	}
	if err := schemas.Compile(schemafiles.Leadership, schemafiles.CompanyScale, schemafiles.Experience); err != nil {
		return nil, err
	}
	if opts.SearchK <= 0 {
		opts.SearchK = DefaultSearchK
	}
	if opts.SearchConcurrency <= 0 {
		opts.SearchConcurrency = DefaultSearchConcurrency
	}
	if opts.NodeTimeout <= 0 {
		opts.NodeTimeout = DefaultNodeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	n := &Nodes{
		client:            client,
		searcher:          searcher,
		searchK:           opts.SearchK,
		searchConcurrency: opts.SearchConcurrency,
		logger:            opts.Logger,
	}

	timeout := memo.WithTimeout(opts.NodeTimeout)
	var err error
	if n.education, err = memo.New[types.EducationLevel](opts.CacheSize, timeout); err != nil {
		return nil, err
	}
	if n.leadership, err = memo.New[types.Leadership](opts.CacheSize, timeout); err != nil {
		return nil, err
	}
	if n.companyScale, err = memo.New[types.CompanyScaleFindings](opts.CacheSize, timeout); err != nil {
		return nil, err
	}
	if n.experience, err = memo.New[types.ExperienceFindings](opts.CacheSize, timeout); err != nil {
		return nil, err
	}
	return n, nil
}

// CacheStats reports hits and misses per node.
func (n *Nodes) CacheStats() map[string][2]int64 {
	stats := make(map[string][2]int64, 4)
	h, m := n.education.Stats()
	stats[NodeCollegeLevel] = [2]int64{h, m}
	h, m = n.leadership.Stats()
	stats[NodeLeadership] = [2]int64{h, m}
	h, m = n.companyScale.Stats()
	stats[NodeCompanyScale] = [2]int64{h, m}
	h, m = n.experience.Stats()
	stats[NodeExperience] = [2]int64{h, m}
	return stats
}

// template returns the prompt text for key. The text is part of every cache
// key, so editing a prompt invalidates its cached answers.
func template(node, key string) (string, error) {
	t, err := prompts.Get(PromptFile, key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", node, err)
	}
	return t, nil
}

// checkTemplates fails when a prompt is missing or uses a placeholder its
// node never fills.
func checkTemplates() error {
	for key, inputs := range promptInputs {
		t, err := prompts.Get(PromptFile, key)
		if err != nil {
			return err
		}
		filled := make(map[string]string, len(inputs))
		for _, name := range inputs {
			filled[name] = ""
		}
		if missing := prompts.Missing(t, filled); len(missing) > 0 {
			return fmt.Errorf("prompt %s uses unknown placeholders %v", key, missing)
		}
	}
	return nil
}

func cacheKey(node string, parts ...any) (string, error) {
	key, err := memo.Fingerprint(parts...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", node, err)
	}
	return key, nil
}

func (n *Nodes) logResult(node string, cached bool, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("node", node), zap.Bool("cached", cached)}, fields...)
	n.logger.Debug("node complete", fields...)
}

// generateStructured asks for JSON, validates it against schema and decodes it into out.
func (n *Nodes) generateStructured(ctx context.Context, node, prompt, schema string, out any) error {
	resp, err := n.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return &APICallError{Node: node, Message: "LLM generation failed", Cause: err}
	}
	resp = llm.CleanJSONBlock(resp)

	if err := schemas.Validate(schema, resp); err != nil {
		n.rejected(node, resp, err)
		return &ParseError{Node: node, Message: "response does not match schema", Content: resp, Cause: err}
	}
	if err := json.Unmarshal([]byte(resp), out); err != nil {
		n.rejected(node, resp, err)
		return &ParseError{Node: node, Message: "failed to decode response", Content: resp, Cause: err}
	}
	return nil
}

func (n *Nodes) rejected(node, resp string, err error) {
	n.logger.Warn("structured output rejected",
		zap.String("node", node),
		zap.String("response", logger.Truncate(resp, maxLoggedResponse)),
		zap.Error(err))
}

// encode renders v as prompt input. Non-ASCII and HTML characters are kept
// literal so Korean names reach the model unchanged.
func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// orEmpty keeps nil and empty slices on the same cache key.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
