package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/companydata"
	"github.com/jonathan/talent-profiler/internal/config"
	"github.com/jonathan/talent-profiler/internal/db"
	"github.com/jonathan/talent-profiler/internal/llm"
	"github.com/jonathan/talent-profiler/internal/profiling"
	"github.com/jonathan/talent-profiler/internal/prompts"
	"github.com/jonathan/talent-profiler/internal/retrieval"
	"github.com/jonathan/talent-profiler/internal/workflow"
)

// app holds the long-lived clients shared by every request.
type app struct {
	db     *db.DB
	llm    *llm.GeminiClient
	nodes  *profiling.Nodes
	graph  *workflow.Graph
	logger *zap.Logger
}

// newApp connects to PostgreSQL and Gemini and wires the profiling graph.
func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.WithLogger(log))
	if err != nil {
		return nil, err
	}

	client, err := llm.NewClient(ctx, cfg.LLMClientConfig(), cfg.GeminiAPIKey, log)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	graph, nodes, err := buildGraph(cfg, client, client, database, database, log)
	if err != nil {
		_ = client.Close()
		database.Close()
		return nil, err
	}

	return &app{db: database, llm: client, nodes: nodes, graph: graph, logger: log}, nil
}

// buildGraph wires retrieval, the classification nodes and the workflow graph.
func buildGraph(cfg *config.Config, client llm.Client, embedder llm.Embedder, news retrieval.NewsIndex,
	companies companydata.Source, log *zap.Logger) (*workflow.Graph, *profiling.Nodes, error) {
	searcher := retrieval.NewSearcher(retrieval.NewEmbeddingStore(embedder, news), log)

	nodes, err := profiling.NewNodes(client, searcher, profiling.Options{
		CacheSize:         cfg.Workflow.CacheSize,
		SearchK:           cfg.Workflow.SearchK,
		SearchConcurrency: cfg.Workflow.SearchConcurrency,
		NodeTimeout:       cfg.Workflow.NodeTimeout,
		Logger:            log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create profiling nodes: %w", err)
	}

	graph := workflow.New(nodes, companies, workflow.Options{
		Policy:        cfg.Policy(),
		BranchTimeout: cfg.Workflow.BranchTimeout,
		Logger:        log,
	})

	version, err := prompts.Version(profiling.PromptFile)
	if err != nil {
		return nil, nil, err
	}
	log.Info("profiling graph ready",
		zap.String("prompt_version", version),
		zap.String("branch_policy", string(cfg.Policy())),
		zap.Int("cache_size", cfg.Workflow.CacheSize))
	return graph, nodes, nil
}

// Close releases the clients and logs the cache counters.
func (a *app) Close() {
	for node, s := range a.nodes.CacheStats() {
		a.logger.Debug("cache stats", zap.String("node", node), zap.Int64("hits", s[0]), zap.Int64("misses", s[1]))
	}
	if err := a.llm.Close(); err != nil {
		a.logger.Warn("failed to close LLM client", zap.Error(err))
	}
	a.db.Close()
	_ = a.logger.Sync()
}
