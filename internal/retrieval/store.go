package retrieval

import (
	"context"
	"fmt"

	"github.com/jonathan/talent-profiler/internal/llm"
	"github.com/jonathan/talent-profiler/internal/types"
)

// NewsIndex runs a nearest-neighbour query over stored news chunk embeddings.
type NewsIndex interface {
	SearchCompanyNews(ctx context.Context, embedding []float32, limit int) ([]types.TextChunk, error)
}

// EmbeddingStore is a VectorStore that embeds the query text and asks the
// news index for the closest chunks.
type EmbeddingStore struct {
	embedder llm.Embedder
	index    NewsIndex
}

// NewEmbeddingStore creates an EmbeddingStore.
func NewEmbeddingStore(embedder llm.Embedder, index NewsIndex) *EmbeddingStore {
	return &EmbeddingStore{embedder: embedder, index: index}
}

// SimilaritySearch implements VectorStore.
func (s *EmbeddingStore) SimilaritySearch(ctx context.Context, query string, k int) ([]types.TextChunk, error) {
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	chunks, err := s.index.SearchCompanyNews(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search news: %w", err)
	}
	return chunks, nil
}
