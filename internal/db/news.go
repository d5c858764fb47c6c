package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/jonathan/talent-profiler/internal/types"
)

// -----------------------------------------------------------------------------
// Company News Methods
// -----------------------------------------------------------------------------

// GetCompanyNewsByID retrieves a news chunk by its id. Returns nil, nil when no row exists.
func (db *DB) GetCompanyNewsByID(ctx context.Context, id int64) (*CompanyNews, error) {
	var n CompanyNews
	var embedding *pgvector.Vector
	err := db.withRetry(ctx, "get company news", func() error {
		return db.pool.QueryRow(ctx,
			`SELECT id, company_id, title, chunk_index, chunked_content, embedding, original_link, news_date
			 FROM company_news WHERE id = $1`,
			id,
		).Scan(&n.ID, &n.CompanyID, &n.Title, &n.ChunkIndex, &n.ChunkedContent, &embedding, &n.OriginalLink, &n.NewsDate)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company news: %w", err)
	}
	if embedding != nil {
		n.Embedding = embedding.Slice()
	}
	return &n, nil
}

// SearchCompanyNews returns the limit news chunks closest to embedding by cosine
// distance, nearest first. Chunks without an embedding are never returned.
func (db *DB) SearchCompanyNews(ctx context.Context, embedding []float32, limit int) ([]types.TextChunk, error) {
	if limit <= 0 {
		return []types.TextChunk{}, nil
	}

	query := pgvector.NewVector(embedding)
	var chunks []types.TextChunk
	err := db.withRetry(ctx, "search company news", func() error {
		rows, err := db.pool.Query(ctx,
			`SELECT id, company_id, title, chunked_content, news_date, 1 - (embedding <=> $1) AS score
			 FROM company_news
			 WHERE embedding IS NOT NULL
			 ORDER BY embedding <=> $1
			 LIMIT $2`,
			query, limit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		chunks = chunks[:0]
		for rows.Next() {
			var c types.TextChunk
			var newsDate *time.Time
			if err := rows.Scan(&c.ID, &c.CompanyID, &c.Title, &c.Content, &newsDate, &c.Score); err != nil {
				return err
			}
			c.Date = newsDate
			chunks = append(chunks, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search company news: %w", err)
	}
	if chunks == nil {
		chunks = []types.TextChunk{}
	}
	return chunks, nil
}
