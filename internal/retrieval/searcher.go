// Package retrieval runs keyword similarity searches over the company news
// corpus and filters the hits by an employment date window.
package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talent-profiler/internal/types"
)

// overFetch is how many candidates are requested per result slot, leaving
// room for chunks dropped by the date filter.
const overFetch = 3

// VectorStore returns the k chunks most similar to query, best first.
type VectorStore interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]types.TextChunk, error)
}

// Searcher is safe for concurrent use; each call keeps its own state.
type Searcher struct {
	store  VectorStore
	logger *zap.Logger
}

// NewSearcher creates a Searcher over store.
func NewSearcher(store VectorStore, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{store: store, logger: logger}
}

// Search returns at most k chunks similar to keyword, in similarity order,
// whose date lies inside window. Chunks without a date are always kept and a
// nil window disables filtering. Store failures are logged and yield no chunks.
func (s *Searcher) Search(ctx context.Context, keyword string, k int, window *types.DateWindow) []types.TextChunk {
	if k <= 0 {
		return []types.TextChunk{}
	}

	chunks, err := s.store.SimilaritySearch(ctx, keyword, k*overFetch)
	if err != nil {
		s.logger.Warn("similarity search failed",
			zap.String("keyword", keyword),
			zap.Int("k", k),
			zap.Error(err))
		return []types.TextChunk{}
	}

	start, end := bounds(window)
	kept := make([]types.TextChunk, 0, k)
	for _, c := range chunks {
		if len(kept) == k {
			break
		}
		if !inWindow(c.Date, start, end) {
			continue
		}
		kept = append(kept, c)
	}

	s.logger.Debug("similarity search",
		zap.String("keyword", keyword),
		zap.Int("fetched", len(chunks)),
		zap.Int("kept", len(kept)))
	return kept
}

// bounds converts a month window into inclusive day bounds. Either may be nil.
func bounds(window *types.DateWindow) (start, end *time.Time) {
	if window == nil {
		return nil, nil
	}
	if window.Start != nil {
		t := window.Start.FirstDay()
		start = &t
	}
	if window.End != nil {
		t := window.End.LastDay()
		end = &t
	}
	return start, end
}

func inWindow(date, start, end *time.Time) bool {
	if date == nil {
		return true
	}
	d := truncateDay(*date)
	if start != nil && d.Before(*start) {
		return false
	}
	if end != nil && d.After(*end) {
		return false
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
