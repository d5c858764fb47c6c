package db

import (
	"encoding/json"
	"time"
)

// Company is a row of the company table. Data is the loosely typed attribute blob.
type Company struct {
	ID   int64           `json:"id"`
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// CompanyNews is a row of the company_news table. Embedding is nil until the
// embedding job has processed the chunk.
type CompanyNews struct {
	ID             int64      `json:"id"`
	CompanyID      int64      `json:"company_id"`
	Title          string     `json:"title"`
	ChunkIndex     int        `json:"chunk_index"`
	ChunkedContent string     `json:"chunked_content"`
	Embedding      []float32  `json:"embedding"`
	OriginalLink   *string    `json:"original_link"`
	NewsDate       *time.Time `json:"news_date"`
}
